package mapper

import (
	"context"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
)

// AlbumMapper mirrors SongMapper for albums and their tracks.
type AlbumMapper struct {
	agg aggregates
	now func() time.Time
}

func NewAlbumMapper(ratings RatingAggregator, comments CommentCounter) *AlbumMapper {
	return &AlbumMapper{agg: aggregates{ratings: ratings, comments: comments}, now: time.Now}
}

func (m *AlbumMapper) ToResponse(ctx context.Context, a *domain.Album) (*dto.AlbumResponse, error) {
	if a == nil {
		return nil, nil
	}
	fields, err := m.fields(ctx, a)
	if err != nil {
		return nil, err
	}
	out := &dto.AlbumResponse{AlbumFields: fields}
	if len(a.Tracks) > 0 {
		ref := albumTrackRef(a.Tracks[0])
		out.Track = &ref
	}
	return out, nil
}

func (m *AlbumMapper) ToDetailResponse(ctx context.Context, a *domain.Album) (*dto.AlbumDetailResponse, error) {
	if a == nil {
		return nil, nil
	}
	fields, err := m.fields(ctx, a)
	if err != nil {
		return nil, err
	}
	tracks := make([]dto.AlbumTrackRef, 0, len(a.Tracks))
	for _, at := range a.Tracks {
		tracks = append(tracks, albumTrackRef(at))
	}
	return &dto.AlbumDetailResponse{AlbumFields: fields, Tracks: tracks}, nil
}

func (m *AlbumMapper) ToResponseList(ctx context.Context, albums []*domain.Album) ([]dto.AlbumResponse, error) {
	out := make([]dto.AlbumResponse, 0, len(albums))
	for _, a := range albums {
		resp, err := m.ToResponse(ctx, a)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (m *AlbumMapper) FromCreateRequest(req *dto.CreateAlbumRequest, artistID int64) (*domain.Album, error) {
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
	return &domain.Album{
		Title:       req.Title,
		ArtistID:    artistID,
		Genre:       genre,
		Price:       req.Price,
		ArtworkURL:  req.ArtworkURL,
		Description: req.Description,
		PublishedAt: published,
	}, nil
}

func (m *AlbumMapper) ApplyUpdate(a *domain.Album, req *dto.UpdateAlbumRequest) error {
	if a == nil || req == nil {
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
		a.Title = *req.Title
	}
	if req.GenreID != nil {
		a.Genre = genre
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.ArtworkURL != nil {
		a.ArtworkURL = *req.ArtworkURL
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.PublishedAt != nil {
		a.PublishedAt = req.PublishedAt.UTC()
	}
	return nil
}

func (m *AlbumMapper) fields(ctx context.Context, a *domain.Album) (dto.AlbumFields, error) {
	genre, err := genreName(a.Genre)
	if err != nil {
		return dto.AlbumFields{}, err
	}
	avg, comments, err := m.agg.fetch(ctx, domain.TargetAlbum, a.ID)
	if err != nil {
		return dto.AlbumFields{}, err
	}
	return dto.AlbumFields{
		ID:            a.ID,
		Title:         a.Title,
		ArtistID:      a.ArtistID,
		GenreID:       a.Genre.ID(),
		Genre:         genre,
		Price:         a.Price,
		ArtworkURL:    a.ArtworkURL,
		Description:   a.Description,
		PublishedAt:   a.PublishedAt,
		TrackCount:    len(a.Tracks),
		AverageRating: avg,
		CommentCount:  comments,
	}, nil
}

func albumTrackRef(at domain.AlbumTrack) dto.AlbumTrackRef {
	ref := dto.AlbumTrackRef{SongID: at.SongID, TrackNumber: at.TrackNumber}
	if at.Song != nil {
		ref.Title = at.Song.Title
		ref.ArtworkURL = at.Song.ArtworkURL
		ref.Duration = at.Song.Duration
	}
	return ref
}
