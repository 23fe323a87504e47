package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Album struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(200);not null;index" json:"title"`
	ArtistID    int64           `gorm:"not null;index" json:"artist_id"`
	Genre       Genre           `gorm:"column:genre_id;not null;index" json:"genre_id"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ArtworkURL  string          `gorm:"type:varchar(500)" json:"artwork_url"`
	Description string          `gorm:"type:text" json:"description"`
	PublishedAt time.Time       `gorm:"not null" json:"published_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Tracks is ordered by track number.
	Tracks []AlbumTrack `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
}

// AlbumTrack places a song on an album at a track number.
type AlbumTrack struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	AlbumID     int64 `gorm:"not null;uniqueIndex:idx_album_song;uniqueIndex:idx_album_track_number" json:"album_id"`
	SongID      int64 `gorm:"not null;uniqueIndex:idx_album_song;index" json:"song_id"`
	TrackNumber int   `gorm:"not null;uniqueIndex:idx_album_track_number" json:"track_number"`

	Album *Album `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
	Song  *Song  `gorm:"foreignKey:SongID" json:"song,omitempty"`
}
