package handler

import (
	"net/http"
	"strconv"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	RegisterValidators()
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	for kind, prefix := range targetPaths {
		kg := g.Group(prefix + "/:id/comments")
		kg.GET("", h.ListComments(kind))
		kg.POST("", auth, h.AddComment(kind))
	}
	g.DELETE("/comments/:kind/:id/:commentId", auth, h.DeleteComment)
}

// GET /catalog/{songs,albums}/:id/comments?limit=n
func (h *CommentHandler) ListComments(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		limit := repository.DefaultPageSize
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > repository.MaxPageSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			limit = n
		}
		out, err := h.svc.ListComments(c.Request.Context(), kind, id, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// POST /catalog/{songs,albums}/:id/comments
func (h *CommentHandler) AddComment(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req dto.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		if rejectUnsafeText(c, req.Content) {
			return
		}
		comment, err := h.svc.AddComment(c.Request.Context(), actorFrom(c), kind, id, middleware.SanitizeString(req.Content))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// DELETE /catalog/comments/:kind/:id/:commentId
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	kind, err := domain.ParseTargetKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), actorFrom(c), kind, id, c.Param("commentId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
