package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/mapper"
	"github.com/annazecevic/catalog-service/repository"
)

// TargetCleaner drops data another store keeps about a deleted song or
// album.
type TargetCleaner interface {
	DeleteByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) error
}

type CatalogService interface {
	CreateSong(ctx context.Context, actor Actor, req *dto.CreateSongRequest) (*dto.SongDetailResponse, error)
	GetSong(ctx context.Context, id int64) (*dto.SongResponse, error)
	GetSongDetail(ctx context.Context, id int64) (*dto.SongDetailResponse, error)
	ListSongs(ctx context.Context, q dto.SongQuery) ([]dto.SongResponse, error)
	UpdateSong(ctx context.Context, actor Actor, id int64, req *dto.UpdateSongRequest) (*dto.SongDetailResponse, error)
	DeleteSong(ctx context.Context, actor Actor, id int64) error
	RegisterPlay(ctx context.Context, id int64) (int64, error)

	CreateAlbum(ctx context.Context, actor Actor, req *dto.CreateAlbumRequest) (*dto.AlbumDetailResponse, error)
	GetAlbum(ctx context.Context, id int64) (*dto.AlbumResponse, error)
	GetAlbumDetail(ctx context.Context, id int64) (*dto.AlbumDetailResponse, error)
	ListAlbums(ctx context.Context, q dto.AlbumQuery) ([]dto.AlbumResponse, error)
	UpdateAlbum(ctx context.Context, actor Actor, id int64, req *dto.UpdateAlbumRequest) (*dto.AlbumDetailResponse, error)
	DeleteAlbum(ctx context.Context, actor Actor, id int64) error
	AddTrack(ctx context.Context, actor Actor, albumID int64, req *dto.AddTrackRequest) (*dto.AlbumDetailResponse, error)
	RemoveTrack(ctx context.Context, actor Actor, albumID, songID int64) (*dto.AlbumDetailResponse, error)

	TargetExists(ctx context.Context, kind domain.TargetKind, id int64) (bool, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	songs    *mapper.SongMapper
	albums   *mapper.AlbumMapper
	cleaners []TargetCleaner
}

func NewCatalogService(repo repository.CatalogRepository, ratings mapper.RatingAggregator, comments mapper.CommentCounter, cleaners ...TargetCleaner) CatalogService {
	return &catalogService{
		repo:     repo,
		songs:    mapper.NewSongMapper(ratings, comments),
		albums:   mapper.NewAlbumMapper(ratings, comments),
		cleaners: cleaners,
	}
}

func genreError(err error) error {
	if errors.Is(err, domain.ErrInvalidGenre) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func (s *catalogService) CreateSong(ctx context.Context, actor Actor, req *dto.CreateSongRequest) (*dto.SongDetailResponse, error) {
	if req == nil {
		return nil, invalid("missing song")
	}
	if actor.ArtistID == 0 {
		return nil, fmt.Errorf("%w: only artists can publish songs", ErrForbidden)
	}
	if req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	song, err := s.songs.FromCreateRequest(req, actor.ArtistID)
	if err != nil {
		return nil, genreError(err)
	}
	if err := s.repo.CreateSong(ctx, song); err != nil {
		return nil, fromRepo(err, "song")
	}

	logger.Info(logger.EventCatalogChange, "Song created", logger.Fields(
		"song_id", song.ID,
		"artist_id", song.ArtistID,
		"user_id", actor.UserID,
	))
	return s.songs.ToDetailResponse(ctx, song)
}

func (s *catalogService) GetSong(ctx context.Context, id int64) (*dto.SongResponse, error) {
	song, err := s.repo.FindSongByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "song")
	}
	return s.songs.ToResponse(ctx, song)
}

func (s *catalogService) GetSongDetail(ctx context.Context, id int64) (*dto.SongDetailResponse, error) {
	song, err := s.repo.FindSongByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "song")
	}
	return s.songs.ToDetailResponse(ctx, song)
}

func (s *catalogService) ListSongs(ctx context.Context, q dto.SongQuery) ([]dto.SongResponse, error) {
	f, err := listFilter(q.GenreID, q.ArtistID, q.Query, q.Page, q.Size)
	if err != nil {
		return nil, err
	}
	songs, err := s.repo.ListSongs(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.songs.ToResponseList(ctx, songs)
}

func (s *catalogService) UpdateSong(ctx context.Context, actor Actor, id int64, req *dto.UpdateSongRequest) (*dto.SongDetailResponse, error) {
	song, err := s.repo.FindSongByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "song")
	}
	if !actor.Owns(song.ArtistID) {
		return nil, fmt.Errorf("%w: song belongs to another artist", ErrForbidden)
	}
	if req == nil {
		return nil, invalid("missing changes")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	if err := s.songs.ApplyUpdate(song, req); err != nil {
		return nil, genreError(err)
	}
	if err := s.repo.UpdateSong(ctx, song); err != nil {
		return nil, fromRepo(err, "song")
	}

	logger.Info(logger.EventCatalogChange, "Song updated", logger.Fields("song_id", id, "user_id", actor.UserID))
	return s.songs.ToDetailResponse(ctx, song)
}

func (s *catalogService) DeleteSong(ctx context.Context, actor Actor, id int64) error {
	song, err := s.repo.FindSongByID(ctx, id)
	if err != nil {
		return fromRepo(err, "song")
	}
	if !actor.Owns(song.ArtistID) {
		return fmt.Errorf("%w: song belongs to another artist", ErrForbidden)
	}
	if err := s.repo.DeleteSong(ctx, id); err != nil {
		return fromRepo(err, "song")
	}
	s.cleanup(ctx, domain.TargetSong, id)

	logger.Info(logger.EventCatalogChange, "Song deleted", logger.Fields("song_id", id, "user_id", actor.UserID))
	return nil
}

func (s *catalogService) RegisterPlay(ctx context.Context, id int64) (int64, error) {
	count, err := s.repo.IncrementPlayCount(ctx, id)
	if err != nil {
		return 0, fromRepo(err, "song")
	}
	return count, nil
}

func (s *catalogService) CreateAlbum(ctx context.Context, actor Actor, req *dto.CreateAlbumRequest) (*dto.AlbumDetailResponse, error) {
	if req == nil {
		return nil, invalid("missing album")
	}
	if actor.ArtistID == 0 {
		return nil, fmt.Errorf("%w: only artists can publish albums", ErrForbidden)
	}
	if req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	album, err := s.albums.FromCreateRequest(req, actor.ArtistID)
	if err != nil {
		return nil, genreError(err)
	}
	if err := s.repo.CreateAlbum(ctx, album); err != nil {
		return nil, fromRepo(err, "album")
	}

	logger.Info(logger.EventCatalogChange, "Album created", logger.Fields(
		"album_id", album.ID,
		"artist_id", album.ArtistID,
		"user_id", actor.UserID,
	))
	return s.albums.ToDetailResponse(ctx, album)
}

func (s *catalogService) GetAlbum(ctx context.Context, id int64) (*dto.AlbumResponse, error) {
	album, err := s.repo.FindAlbumByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "album")
	}
	return s.albums.ToResponse(ctx, album)
}

func (s *catalogService) GetAlbumDetail(ctx context.Context, id int64) (*dto.AlbumDetailResponse, error) {
	album, err := s.repo.FindAlbumByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "album")
	}
	return s.albums.ToDetailResponse(ctx, album)
}

func (s *catalogService) ListAlbums(ctx context.Context, q dto.AlbumQuery) ([]dto.AlbumResponse, error) {
	f, err := listFilter(q.GenreID, q.ArtistID, q.Query, q.Page, q.Size)
	if err != nil {
		return nil, err
	}
	albums, err := s.repo.ListAlbums(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.albums.ToResponseList(ctx, albums)
}

func (s *catalogService) UpdateAlbum(ctx context.Context, actor Actor, id int64, req *dto.UpdateAlbumRequest) (*dto.AlbumDetailResponse, error) {
	album, err := s.ownedAlbum(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, invalid("missing changes")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	if err := s.albums.ApplyUpdate(album, req); err != nil {
		return nil, genreError(err)
	}
	if err := s.repo.UpdateAlbum(ctx, album); err != nil {
		return nil, fromRepo(err, "album")
	}

	logger.Info(logger.EventCatalogChange, "Album updated", logger.Fields("album_id", id, "user_id", actor.UserID))
	return s.albums.ToDetailResponse(ctx, album)
}

func (s *catalogService) DeleteAlbum(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.ownedAlbum(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.DeleteAlbum(ctx, id); err != nil {
		return fromRepo(err, "album")
	}
	s.cleanup(ctx, domain.TargetAlbum, id)

	logger.Info(logger.EventCatalogChange, "Album deleted", logger.Fields("album_id", id, "user_id", actor.UserID))
	return nil
}

func (s *catalogService) AddTrack(ctx context.Context, actor Actor, albumID int64, req *dto.AddTrackRequest) (*dto.AlbumDetailResponse, error) {
	if req == nil {
		return nil, invalid("missing track")
	}
	if _, err := s.ownedAlbum(ctx, actor, albumID); err != nil {
		return nil, err
	}

	song, err := s.repo.FindSongByID(ctx, req.SongID)
	if err != nil {
		return nil, fromRepo(err, "song")
	}
	if !actor.Owns(song.ArtistID) {
		return nil, fmt.Errorf("%w: song belongs to another artist", ErrForbidden)
	}

	trackNumber := 0
	if req.TrackNumber != nil {
		trackNumber = *req.TrackNumber
	}
	if _, err := s.repo.AddTrack(ctx, albumID, req.SongID, trackNumber); err != nil {
		return nil, fromRepo(err, "album track")
	}

	logger.Info(logger.EventCatalogChange, "Track added to album", logger.Fields(
		"album_id", albumID,
		"song_id", req.SongID,
		"user_id", actor.UserID,
	))
	return s.GetAlbumDetail(ctx, albumID)
}

func (s *catalogService) RemoveTrack(ctx context.Context, actor Actor, albumID, songID int64) (*dto.AlbumDetailResponse, error) {
	if _, err := s.ownedAlbum(ctx, actor, albumID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveTrack(ctx, albumID, songID); err != nil {
		return nil, fromRepo(err, "album track")
	}

	logger.Info(logger.EventCatalogChange, "Track removed from album", logger.Fields(
		"album_id", albumID,
		"song_id", songID,
		"user_id", actor.UserID,
	))
	return s.GetAlbumDetail(ctx, albumID)
}

func (s *catalogService) TargetExists(ctx context.Context, kind domain.TargetKind, id int64) (bool, error) {
	switch kind {
	case domain.TargetSong:
		return s.repo.SongExists(ctx, id)
	case domain.TargetAlbum:
		return s.repo.AlbumExists(ctx, id)
	}
	return false, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidTargetKind)
}

func (s *catalogService) ownedAlbum(ctx context.Context, actor Actor, id int64) (*domain.Album, error) {
	album, err := s.repo.FindAlbumByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "album")
	}
	if !actor.Owns(album.ArtistID) {
		return nil, fmt.Errorf("%w: album belongs to another artist", ErrForbidden)
	}
	return album, nil
}

// cleanup is best effort; the catalog entry is already gone.
func (s *catalogService) cleanup(ctx context.Context, kind domain.TargetKind, id int64) {
	for _, c := range s.cleaners {
		if err := c.DeleteByTarget(ctx, kind, id); err != nil {
			logger.Warn(logger.EventDBError, "Failed to clean up data for deleted target", logger.Fields(
				"target_kind", string(kind),
				"target_id", id,
				"error", err.Error(),
			))
		}
	}
}

func listFilter(genreID int, artistID int64, title string, page, size int) (repository.ListFilter, error) {
	f := repository.ListFilter{ArtistID: artistID, Title: title, Page: page, Size: size}
	if genreID != 0 {
		g, err := domain.GenreByID(genreID)
		if err != nil {
			return f, genreError(err)
		}
		f.Genre = g
	}
	return f, nil
}
