package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Song struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(200);not null;index" json:"title"`
	ArtistID    int64           `gorm:"not null;index" json:"artist_id"`
	Genre       Genre           `gorm:"column:genre_id;not null;index" json:"genre_id"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Duration    int             `gorm:"not null" json:"duration"` // seconds
	ArtworkURL  string          `gorm:"type:varchar(500)" json:"artwork_url"`
	AudioURL    string          `gorm:"type:varchar(500)" json:"audio_url"`
	Description string          `gorm:"type:text" json:"description"`
	PlayCount   int64           `gorm:"not null;default:0" json:"play_count"`
	PublishedAt time.Time       `gorm:"not null" json:"published_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Albums lists the albums this song appears on, in association order.
	Albums []AlbumTrack `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"albums,omitempty"`
}
