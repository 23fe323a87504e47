package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	RegisterValidators()
	return &RatingHandler{svc: svc}
}

// RegisterRoutes mounts the rating endpoints under every target prefix,
// e.g. /catalog/songs/:id/rating.
func (h *RatingHandler) RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	for kind, prefix := range targetPaths {
		kg := g.Group(prefix + "/:id/rating")
		kg.GET("/stats", h.GetStats(kind))
		kg.GET("", auth, h.GetUserRating(kind))
		kg.PUT("", auth, h.Rate(kind))
		kg.DELETE("", auth, h.RemoveRating(kind))
		g.GET(prefix+"/:id/ratings", auth, middleware.AdminOnly(), h.ListRatings(kind))
	}
}

// PUT /catalog/{songs,albums}/:id/rating
func (h *RatingHandler) Rate(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req dto.RateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rating, err := h.svc.Rate(c.Request.Context(), actorFrom(c), kind, id, req.Value)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rating)
	}
}

// DELETE /catalog/{songs,albums}/:id/rating
func (h *RatingHandler) RemoveRating(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := h.svc.RemoveRating(c.Request.Context(), actorFrom(c), kind, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /catalog/{songs,albums}/:id/rating
func (h *RatingHandler) GetUserRating(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		rating, err := h.svc.GetUserRating(c.Request.Context(), actorFrom(c), kind, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rating)
	}
}

// GET /catalog/{songs,albums}/:id/rating/stats
func (h *RatingHandler) GetStats(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		stats, err := h.svc.GetStats(c.Request.Context(), kind, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GET /catalog/{songs,albums}/:id/ratings
func (h *RatingHandler) ListRatings(kind domain.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		ratings, err := h.svc.ListRatings(c.Request.Context(), actorFrom(c), kind, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ratings)
	}
}
