package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSongRequest struct {
	Title       string          `json:"tituloCancion" binding:"required,min=1,max=200"`
	GenreID     int             `json:"idGenero" binding:"required,genre"`
	Price       decimal.Decimal `json:"precioCancion"`
	Duration    int             `json:"duracion" binding:"required,min=1,max=7200"`
	ArtworkURL  string          `json:"urlPortada" binding:"omitempty,url,httpurl,max=500"`
	AudioURL    string          `json:"urlAudio" binding:"required,url,httpurl,max=500"`
	Description string          `json:"descripcion" binding:"max=2000"`
	PublishedAt *time.Time      `json:"fechaPublicacion"`
}

// UpdateSongRequest carries only the fields to change; nil means untouched.
type UpdateSongRequest struct {
	Title       *string          `json:"tituloCancion" binding:"omitempty,min=1,max=200"`
	GenreID     *int             `json:"idGenero" binding:"omitempty,genre"`
	Price       *decimal.Decimal `json:"precioCancion"`
	Duration    *int             `json:"duracion" binding:"omitempty,min=1,max=7200"`
	ArtworkURL  *string          `json:"urlPortada" binding:"omitempty,url,httpurl,max=500"`
	AudioURL    *string          `json:"urlAudio" binding:"omitempty,url,httpurl,max=500"`
	Description *string          `json:"descripcion" binding:"omitempty,max=2000"`
	PublishedAt *time.Time       `json:"fechaPublicacion"`
}

// SongFields is shared by the basic and detailed song views.
type SongFields struct {
	ID            int64           `json:"idCancion"`
	Title         string          `json:"tituloCancion"`
	ArtistID      int64           `json:"idArtista"`
	GenreID       int             `json:"idGenero"`
	Genre         string          `json:"genero"`
	Price         decimal.Decimal `json:"precioCancion"`
	Duration      int             `json:"duracion"`
	ArtworkURL    string          `json:"urlPortada"`
	AudioURL      string          `json:"urlAudio"`
	Description   string          `json:"descripcion"`
	PlayCount     int64           `json:"reproducciones"`
	PublishedAt   time.Time       `json:"fechaPublicacion"`
	AverageRating *float64        `json:"valoracionMedia"`
	CommentCount  int64           `json:"totalComentarios"`
}

// SongAlbumRef describes one album a song appears on.
type SongAlbumRef struct {
	AlbumID     int64  `json:"idAlbum"`
	Title       string `json:"tituloAlbum"`
	ArtworkURL  string `json:"urlPortadaAlbum"`
	TrackNumber int    `json:"numeroPista"`
}

// SongResponse only carries the first album association.
type SongResponse struct {
	SongFields
	Album *SongAlbumRef `json:"album,omitempty"`
}

type SongDetailResponse struct {
	SongFields
	Albums []SongAlbumRef `json:"albumes"`
}

type SongQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=100"`
	GenreID  int    `form:"genre" binding:"omitempty,genre"`
	ArtistID int64  `form:"artist" binding:"omitempty,min=1"`
	Query    string `form:"q" binding:"omitempty,max=200"`
}
