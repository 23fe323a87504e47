package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAlbumRequest struct {
	Title       string          `json:"tituloAlbum" binding:"required,min=1,max=200"`
	GenreID     int             `json:"idGenero" binding:"required,genre"`
	Price       decimal.Decimal `json:"precioAlbum"`
	ArtworkURL  string          `json:"urlPortada" binding:"omitempty,url,httpurl,max=500"`
	Description string          `json:"descripcion" binding:"max=2000"`
	PublishedAt *time.Time      `json:"fechaPublicacion"`
}

type UpdateAlbumRequest struct {
	Title       *string          `json:"tituloAlbum" binding:"omitempty,min=1,max=200"`
	GenreID     *int             `json:"idGenero" binding:"omitempty,genre"`
	Price       *decimal.Decimal `json:"precioAlbum"`
	ArtworkURL  *string          `json:"urlPortada" binding:"omitempty,url,httpurl,max=500"`
	Description *string          `json:"descripcion" binding:"omitempty,max=2000"`
	PublishedAt *time.Time       `json:"fechaPublicacion"`
}

type AddTrackRequest struct {
	SongID int64 `json:"idCancion" binding:"required,min=1"`
	// TrackNumber defaults to the next free position.
	TrackNumber *int `json:"numeroPista" binding:"omitempty,min=1"`
}

type AlbumFields struct {
	ID            int64           `json:"idAlbum"`
	Title         string          `json:"tituloAlbum"`
	ArtistID      int64           `json:"idArtista"`
	GenreID       int             `json:"idGenero"`
	Genre         string          `json:"genero"`
	Price         decimal.Decimal `json:"precioAlbum"`
	ArtworkURL    string          `json:"urlPortada"`
	Description   string          `json:"descripcion"`
	PublishedAt   time.Time       `json:"fechaPublicacion"`
	TrackCount    int             `json:"totalCanciones"`
	AverageRating *float64        `json:"valoracionMedia"`
	CommentCount  int64           `json:"totalComentarios"`
}

type AlbumTrackRef struct {
	SongID      int64  `json:"idCancion"`
	Title       string `json:"tituloCancion"`
	ArtworkURL  string `json:"urlPortada"`
	Duration    int    `json:"duracion"`
	TrackNumber int    `json:"numeroPista"`
}

// AlbumResponse only carries the first track.
type AlbumResponse struct {
	AlbumFields
	Track *AlbumTrackRef `json:"cancion,omitempty"`
}

type AlbumDetailResponse struct {
	AlbumFields
	Tracks []AlbumTrackRef `json:"canciones"`
}

type AlbumQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=100"`
	GenreID  int    `form:"genre" binding:"omitempty,genre"`
	ArtistID int64  `form:"artist" binding:"omitempty,min=1"`
	Query    string `form:"q" binding:"omitempty,max=200"`
}
