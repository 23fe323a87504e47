package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter narrows song and album listings. Zero fields are ignored.
type ListFilter struct {
	Genre    domain.Genre
	ArtistID int64
	Title    string
	Page     int
	Size     int
}

func (f ListFilter) limitOffset() (int, int) {
	size := f.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return size, (page - 1) * size
}

type CatalogRepository interface {
	CreateSong(ctx context.Context, s *domain.Song) error
	FindSongByID(ctx context.Context, id int64) (*domain.Song, error)
	ListSongs(ctx context.Context, f ListFilter) ([]*domain.Song, error)
	UpdateSong(ctx context.Context, s *domain.Song) error
	DeleteSong(ctx context.Context, id int64) error
	IncrementPlayCount(ctx context.Context, id int64) (int64, error)
	SongExists(ctx context.Context, id int64) (bool, error)

	CreateAlbum(ctx context.Context, a *domain.Album) error
	FindAlbumByID(ctx context.Context, id int64) (*domain.Album, error)
	ListAlbums(ctx context.Context, f ListFilter) ([]*domain.Album, error)
	UpdateAlbum(ctx context.Context, a *domain.Album) error
	DeleteAlbum(ctx context.Context, id int64) error
	AlbumExists(ctx context.Context, id int64) (bool, error)

	// AddTrack appends songID to albumID. A zero trackNumber takes the next
	// free position.
	AddTrack(ctx context.Context, albumID, songID int64, trackNumber int) (*domain.AlbumTrack, error)
	RemoveTrack(ctx context.Context, albumID, songID int64) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

var songColumns = []string{"title", "genre_id", "price", "duration", "artwork_url", "audio_url", "description", "published_at", "updated_at"}

var albumColumns = []string{"title", "genre_id", "price", "artwork_url", "description", "published_at", "updated_at"}

func preloadSongAlbums(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Albums", func(tx *gorm.DB) *gorm.DB { return tx.Order("album_tracks.id ASC") }).
		Preload("Albums.Album")
}

func preloadAlbumTracks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tracks", func(tx *gorm.DB) *gorm.DB { return tx.Order("album_tracks.track_number ASC") }).
		Preload("Tracks.Song")
}

func applyFilter(db *gorm.DB, f ListFilter) *gorm.DB {
	if f.Genre != 0 {
		db = db.Where("genre_id = ?", int(f.Genre))
	}
	if f.ArtistID != 0 {
		db = db.Where("artist_id = ?", f.ArtistID)
	}
	if q := strings.TrimSpace(f.Title); q != "" {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(q))+"%")
	}
	limit, offset := f.limitOffset()
	return db.Limit(limit).Offset(offset)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *catalogRepository) CreateSong(ctx context.Context, s *domain.Song) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.db.WithContext(ctx).Omit("Albums").Create(s).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", translateError(err))
	}
	return nil
}

func (r *catalogRepository) FindSongByID(ctx context.Context, id int64) (*domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var s domain.Song
	if err := preloadSongAlbums(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

func (r *catalogRepository) ListSongs(ctx context.Context, f ListFilter) ([]*domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	var out []*domain.Song
	q := applyFilter(preloadSongAlbums(r.db.WithContext(ctx)), f).Order("id ASC")
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return out, nil
}

func (r *catalogRepository) UpdateSong(ctx context.Context, s *domain.Song) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res := r.db.WithContext(ctx).Model(s).Select(songColumns).Updates(s)
	if res.Error != nil {
		return fmt.Errorf("failed to update song: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteSong(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&domain.AlbumTrack{}).Error; err != nil {
			return fmt.Errorf("failed to delete song tracks: %w", err)
		}
		res := tx.Delete(&domain.Song{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete song: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *catalogRepository) IncrementPlayCount(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Song{}).Where("id = ?", id).
			UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to register play: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&domain.Song{}).Where("id = ?", id).Pluck("play_count", &count).Error
	})
	return count, err
}

func (r *catalogRepository) SongExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &domain.Song{}, id)
}

func (r *catalogRepository) CreateAlbum(ctx context.Context, a *domain.Album) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.db.WithContext(ctx).Omit("Tracks").Create(a).Error; err != nil {
		return fmt.Errorf("failed to create album: %w", translateError(err))
	}
	return nil
}

func (r *catalogRepository) FindAlbumByID(ctx context.Context, id int64) (*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var a domain.Album
	if err := preloadAlbumTracks(r.db.WithContext(ctx)).First(&a, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (r *catalogRepository) ListAlbums(ctx context.Context, f ListFilter) ([]*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	var out []*domain.Album
	q := applyFilter(preloadAlbumTracks(r.db.WithContext(ctx)), f).Order("id ASC")
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return out, nil
}

func (r *catalogRepository) UpdateAlbum(ctx context.Context, a *domain.Album) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res := r.db.WithContext(ctx).Model(a).Select(albumColumns).Updates(a)
	if res.Error != nil {
		return fmt.Errorf("failed to update album: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteAlbum(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&domain.AlbumTrack{}).Error; err != nil {
			return fmt.Errorf("failed to delete album tracks: %w", err)
		}
		res := tx.Delete(&domain.Album{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete album: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *catalogRepository) AlbumExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &domain.Album{}, id)
}

func (r *catalogRepository) AddTrack(ctx context.Context, albumID, songID int64, trackNumber int) (*domain.AlbumTrack, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	track := &domain.AlbumTrack{AlbumID: albumID, SongID: songID, TrackNumber: trackNumber}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, check := range []struct {
			model interface{}
			id    int64
		}{{&domain.Album{}, albumID}, {&domain.Song{}, songID}} {
			var n int64
			if err := tx.Model(check.model).Where("id = ?", check.id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}

		if track.TrackNumber == 0 {
			var last int
			if err := tx.Model(&domain.AlbumTrack{}).Where("album_id = ?", albumID).
				Select("COALESCE(MAX(track_number), 0)").Scan(&last).Error; err != nil {
				return err
			}
			track.TrackNumber = last + 1
		}

		if err := tx.Omit("Album", "Song").Create(track).Error; err != nil {
			return translateError(err)
		}
		return tx.Preload("Song").First(track, track.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (r *catalogRepository) RemoveTrack(ctx context.Context, albumID, songID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res := r.db.WithContext(ctx).Where("album_id = ? AND song_id = ?", albumID, songID).Delete(&domain.AlbumTrack{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove track: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) exists(ctx context.Context, model interface{}, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
