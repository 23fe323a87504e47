package handler

import (
	"context"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/service"
)

type mockCatalogService struct {
	err        error
	lastActor  service.Actor
	lastSongQ  dto.SongQuery
	lastCreate *dto.CreateSongRequest
	lastUpdate *dto.UpdateSongRequest
	lastTrack  *dto.AddTrackRequest
	plays      int64
}

func (m *mockCatalogService) song(id int64) dto.SongFields {
	avg := 4.0
	return dto.SongFields{ID: id, Title: "Cancion Test", GenreID: 2, Genre: "Pop", AverageRating: &avg, CommentCount: 2}
}

func (m *mockCatalogService) CreateSong(ctx context.Context, actor service.Actor, req *dto.CreateSongRequest) (*dto.SongDetailResponse, error) {
	m.lastActor, m.lastCreate = actor, req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SongDetailResponse{SongFields: m.song(1), Albums: []dto.SongAlbumRef{}}, nil
}

func (m *mockCatalogService) GetSong(ctx context.Context, id int64) (*dto.SongResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SongResponse{SongFields: m.song(id), Album: &dto.SongAlbumRef{AlbumID: 3, Title: "Disco", TrackNumber: 1}}, nil
}

func (m *mockCatalogService) GetSongDetail(ctx context.Context, id int64) (*dto.SongDetailResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SongDetailResponse{SongFields: m.song(id), Albums: []dto.SongAlbumRef{{AlbumID: 3}, {AlbumID: 4}}}, nil
}

func (m *mockCatalogService) ListSongs(ctx context.Context, q dto.SongQuery) ([]dto.SongResponse, error) {
	m.lastSongQ = q
	if m.err != nil {
		return nil, m.err
	}
	return []dto.SongResponse{}, nil
}

func (m *mockCatalogService) UpdateSong(ctx context.Context, actor service.Actor, id int64, req *dto.UpdateSongRequest) (*dto.SongDetailResponse, error) {
	m.lastActor, m.lastUpdate = actor, req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SongDetailResponse{SongFields: m.song(id), Albums: []dto.SongAlbumRef{}}, nil
}

func (m *mockCatalogService) DeleteSong(ctx context.Context, actor service.Actor, id int64) error {
	m.lastActor = actor
	return m.err
}

func (m *mockCatalogService) RegisterPlay(ctx context.Context, id int64) (int64, error) {
	m.plays++
	return m.plays, m.err
}

func (m *mockCatalogService) CreateAlbum(ctx context.Context, actor service.Actor, req *dto.CreateAlbumRequest) (*dto.AlbumDetailResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AlbumDetailResponse{AlbumFields: dto.AlbumFields{ID: 5, Title: req.Title}, Tracks: []dto.AlbumTrackRef{}}, nil
}

func (m *mockCatalogService) GetAlbum(ctx context.Context, id int64) (*dto.AlbumResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AlbumResponse{AlbumFields: dto.AlbumFields{ID: id}}, nil
}

func (m *mockCatalogService) GetAlbumDetail(ctx context.Context, id int64) (*dto.AlbumDetailResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AlbumDetailResponse{AlbumFields: dto.AlbumFields{ID: id}, Tracks: []dto.AlbumTrackRef{}}, nil
}

func (m *mockCatalogService) ListAlbums(ctx context.Context, q dto.AlbumQuery) ([]dto.AlbumResponse, error) {
	return []dto.AlbumResponse{}, m.err
}

func (m *mockCatalogService) UpdateAlbum(ctx context.Context, actor service.Actor, id int64, req *dto.UpdateAlbumRequest) (*dto.AlbumDetailResponse, error) {
	return m.GetAlbumDetail(ctx, id)
}

func (m *mockCatalogService) DeleteAlbum(ctx context.Context, actor service.Actor, id int64) error {
	return m.err
}

func (m *mockCatalogService) AddTrack(ctx context.Context, actor service.Actor, albumID int64, req *dto.AddTrackRequest) (*dto.AlbumDetailResponse, error) {
	m.lastTrack = req
	return m.GetAlbumDetail(ctx, albumID)
}

func (m *mockCatalogService) RemoveTrack(ctx context.Context, actor service.Actor, albumID, songID int64) (*dto.AlbumDetailResponse, error) {
	return m.GetAlbumDetail(ctx, albumID)
}

func (m *mockCatalogService) TargetExists(ctx context.Context, kind domain.TargetKind, id int64) (bool, error) {
	return m.err == nil, m.err
}

type mockRatingService struct {
	err      error
	lastKind domain.TargetKind
	lastVal  int
}

func (m *mockRatingService) Rate(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64, value int) (*dto.RatingResponse, error) {
	m.lastKind, m.lastVal = kind, value
	if m.err != nil {
		return nil, m.err
	}
	return &dto.RatingResponse{UserID: actor.UserID, TargetKind: string(kind), TargetID: id, Value: value}, nil
}

func (m *mockRatingService) RemoveRating(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64) error {
	m.lastKind = kind
	return m.err
}

func (m *mockRatingService) GetUserRating(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64) (*dto.RatingResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.RatingResponse{UserID: actor.UserID, TargetKind: string(kind), TargetID: id, Value: 3}, nil
}

func (m *mockRatingService) GetStats(ctx context.Context, kind domain.TargetKind, id int64) (*dto.RatingStatsResponse, error) {
	m.lastKind = kind
	if m.err != nil {
		return nil, m.err
	}
	avg := 3.67
	return &dto.RatingStatsResponse{TargetKind: string(kind), TargetID: id, Average: &avg, Count: 3}, nil
}

func (m *mockRatingService) ListRatings(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64) ([]dto.RatingResponse, error) {
	m.lastKind = kind
	if m.err != nil {
		return nil, m.err
	}
	return []dto.RatingResponse{{UserID: "u-3", TargetKind: string(kind), TargetID: id, Value: 5}}, nil
}

type mockCommentService struct {
	err         error
	lastContent string
	lastLimit   int
	lastKind    domain.TargetKind
	lastID      string
}

func (m *mockCommentService) AddComment(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64, content string) (*dto.CommentResponse, error) {
	m.lastKind, m.lastContent = kind, content
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CommentResponse{ID: "c-1", UserID: actor.UserID, TargetKind: string(kind), TargetID: id, Content: content}, nil
}

func (m *mockCommentService) ListComments(ctx context.Context, kind domain.TargetKind, id int64, limit int) ([]dto.CommentResponse, error) {
	m.lastKind, m.lastLimit = kind, limit
	return []dto.CommentResponse{}, m.err
}

func (m *mockCommentService) DeleteComment(ctx context.Context, actor service.Actor, kind domain.TargetKind, id int64, commentID string) error {
	m.lastKind, m.lastID = kind, commentID
	return m.err
}
