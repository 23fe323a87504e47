package handler

import (
	"net/http"
	"strconv"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	RegisterValidators()
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	publisher := middleware.RoleMiddleware("artist", service.RoleAdmin)

	g.GET("/genres", h.ListGenres)
	g.GET("/genres/:id", h.GetGenre)

	songs := g.Group("/songs")
	songs.GET("", h.ListSongs)
	songs.GET("/:id", h.GetSong)
	songs.GET("/:id/detail", h.GetSongDetail)
	songs.POST("/:id/plays", h.RegisterPlay)
	songs.POST("", auth, publisher, h.CreateSong)
	songs.PATCH("/:id", auth, h.UpdateSong)
	songs.DELETE("/:id", auth, h.DeleteSong)

	albums := g.Group("/albums")
	albums.GET("", h.ListAlbums)
	albums.GET("/:id", h.GetAlbum)
	albums.GET("/:id/detail", h.GetAlbumDetail)
	albums.POST("", auth, publisher, h.CreateAlbum)
	albums.PATCH("/:id", auth, h.UpdateAlbum)
	albums.DELETE("/:id", auth, h.DeleteAlbum)
	albums.POST("/:id/tracks", auth, h.AddTrack)
	albums.DELETE("/:id/tracks/:songId", auth, h.RemoveTrack)
}

// GET /catalog/genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	ids := domain.GenreIDs()
	out := make([]dto.GenreResponse, 0, len(ids))
	for _, id := range ids {
		g, _ := domain.GenreByID(id)
		out = append(out, dto.GenreResponse{ID: g.ID(), Name: g.Name()})
	}
	c.JSON(http.StatusOK, out)
}

// GET /catalog/genres/:id
func (h *CatalogHandler) GetGenre(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "genre id must be an integer"})
		return
	}
	g, err := domain.GenreByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreResponse{ID: g.ID(), Name: g.Name()})
}

// GET /catalog/songs
func (h *CatalogHandler) ListSongs(c *gin.Context) {
	var q dto.SongQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, q.Query) {
		return
	}
	out, err := h.svc.ListSongs(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /catalog/songs/:id
func (h *CatalogHandler) GetSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	song, err := h.svc.GetSong(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// GET /catalog/songs/:id/detail
func (h *CatalogHandler) GetSongDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	song, err := h.svc.GetSongDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// POST /catalog/songs
func (h *CatalogHandler) CreateSong(c *gin.Context) {
	var req dto.CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, req.Title, req.Description) {
		return
	}
	song, err := h.svc.CreateSong(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, song)
}

// PATCH /catalog/songs/:id
func (h *CatalogHandler) UpdateSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, deref(req.Title), deref(req.Description)) {
		return
	}
	song, err := h.svc.UpdateSong(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// DELETE /catalog/songs/:id
func (h *CatalogHandler) DeleteSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSong(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /catalog/songs/:id/plays
func (h *CatalogHandler) RegisterPlay(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	plays, err := h.svc.RegisterPlay(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"idCancion": id, "reproducciones": plays})
}

// GET /catalog/albums
func (h *CatalogHandler) ListAlbums(c *gin.Context) {
	var q dto.AlbumQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, q.Query) {
		return
	}
	out, err := h.svc.ListAlbums(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /catalog/albums/:id
func (h *CatalogHandler) GetAlbum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	album, err := h.svc.GetAlbum(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// GET /catalog/albums/:id/detail
func (h *CatalogHandler) GetAlbumDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	album, err := h.svc.GetAlbumDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// POST /catalog/albums
func (h *CatalogHandler) CreateAlbum(c *gin.Context) {
	var req dto.CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, req.Title, req.Description) {
		return
	}
	album, err := h.svc.CreateAlbum(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, album)
}

// PATCH /catalog/albums/:id
func (h *CatalogHandler) UpdateAlbum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if rejectUnsafeText(c, deref(req.Title), deref(req.Description)) {
		return
	}
	album, err := h.svc.UpdateAlbum(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// DELETE /catalog/albums/:id
func (h *CatalogHandler) DeleteAlbum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAlbum(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /catalog/albums/:id/tracks
func (h *CatalogHandler) AddTrack(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	album, err := h.svc.AddTrack(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// DELETE /catalog/albums/:id/tracks/:songId
func (h *CatalogHandler) RemoveTrack(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	songID, ok := idParam(c, "songId")
	if !ok {
		return
	}
	album, err := h.svc.RemoveTrack(c.Request.Context(), actorFrom(c), id, songID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}
