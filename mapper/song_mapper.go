package mapper

import (
	"context"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
)

// SongMapper converts songs to and from their API representations. It holds
// no state besides its collaborators and is safe for concurrent use.
type SongMapper struct {
	agg aggregates
	now func() time.Time
}

func NewSongMapper(ratings RatingAggregator, comments CommentCounter) *SongMapper {
	return &SongMapper{agg: aggregates{ratings: ratings, comments: comments}, now: time.Now}
}

// ToResponse builds the basic view. Only the first album association is
// included.
func (m *SongMapper) ToResponse(ctx context.Context, s *domain.Song) (*dto.SongResponse, error) {
	if s == nil {
		return nil, nil
	}
	fields, err := m.fields(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &dto.SongResponse{SongFields: fields}
	if len(s.Albums) > 0 {
		ref := songAlbumRef(s.Albums[0])
		out.Album = &ref
	}
	return out, nil
}

// ToDetailResponse builds the detailed view with every album association
// in order.
func (m *SongMapper) ToDetailResponse(ctx context.Context, s *domain.Song) (*dto.SongDetailResponse, error) {
	if s == nil {
		return nil, nil
	}
	fields, err := m.fields(ctx, s)
	if err != nil {
		return nil, err
	}
	albums := make([]dto.SongAlbumRef, 0, len(s.Albums))
	for _, at := range s.Albums {
		albums = append(albums, songAlbumRef(at))
	}
	return &dto.SongDetailResponse{SongFields: fields, Albums: albums}, nil
}

// ToResponseList maps every song with ToResponse. A nil slice yields an
// empty, non-nil result; nil elements are skipped.
func (m *SongMapper) ToResponseList(ctx context.Context, songs []*domain.Song) ([]dto.SongResponse, error) {
	out := make([]dto.SongResponse, 0, len(songs))
	for _, s := range songs {
		resp, err := m.ToResponse(ctx, s)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (m *SongMapper) FromCreateRequest(req *dto.CreateSongRequest, artistID int64) (*domain.Song, error) {
	if req == nil {
		return nil, nil
	}
	genre, err := domain.GenreByID(req.GenreID)
	if err != nil {
		return nil, err
	}
	published := m.now().UTC()
	if req.PublishedAt != nil {
		published = req.PublishedAt.UTC()
	}
	return &domain.Song{
		Title:       req.Title,
		ArtistID:    artistID,
		Genre:       genre,
		Price:       req.Price,
		Duration:    req.Duration,
		ArtworkURL:  req.ArtworkURL,
		AudioURL:    req.AudioURL,
		Description: req.Description,
		PlayCount:   0,
		PublishedAt: published,
	}, nil
}

// ApplyUpdate copies the non-nil fields of req onto s. On error s is left
// unchanged.
func (m *SongMapper) ApplyUpdate(s *domain.Song, req *dto.UpdateSongRequest) error {
	if s == nil || req == nil {
		return nil
	}
	var genre domain.Genre
	if req.GenreID != nil {
		g, err := domain.GenreByID(*req.GenreID)
		if err != nil {
			return err
		}
		genre = g
	}

	if req.Title != nil {
		s.Title = *req.Title
	}
	if req.GenreID != nil {
		s.Genre = genre
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	if req.ArtworkURL != nil {
		s.ArtworkURL = *req.ArtworkURL
	}
	if req.AudioURL != nil {
		s.AudioURL = *req.AudioURL
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.PublishedAt != nil {
		s.PublishedAt = req.PublishedAt.UTC()
	}
	return nil
}

func (m *SongMapper) fields(ctx context.Context, s *domain.Song) (dto.SongFields, error) {
	genre, err := genreName(s.Genre)
	if err != nil {
		return dto.SongFields{}, err
	}
	avg, comments, err := m.agg.fetch(ctx, domain.TargetSong, s.ID)
	if err != nil {
		return dto.SongFields{}, err
	}
	return dto.SongFields{
		ID:            s.ID,
		Title:         s.Title,
		ArtistID:      s.ArtistID,
		GenreID:       s.Genre.ID(),
		Genre:         genre,
		Price:         s.Price,
		Duration:      s.Duration,
		ArtworkURL:    s.ArtworkURL,
		AudioURL:      s.AudioURL,
		Description:   s.Description,
		PlayCount:     s.PlayCount,
		PublishedAt:   s.PublishedAt,
		AverageRating: avg,
		CommentCount:  comments,
	}, nil
}

func songAlbumRef(at domain.AlbumTrack) dto.SongAlbumRef {
	ref := dto.SongAlbumRef{AlbumID: at.AlbumID, TrackNumber: at.TrackNumber}
	if at.Album != nil {
		ref.Title = at.Album.Title
		ref.ArtworkURL = at.Album.ArtworkURL
	}
	return ref
}
