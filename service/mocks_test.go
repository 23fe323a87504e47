package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/gocql/gocql"
)

type mockCatalogRepo struct {
	songs  map[int64]*domain.Song
	albums map[int64]*domain.Album
	nextID int64

	lastFilter repository.ListFilter
	updated    int
	deleted    []int64
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{songs: map[int64]*domain.Song{}, albums: map[int64]*domain.Album{}}
}

func (m *mockCatalogRepo) CreateSong(ctx context.Context, s *domain.Song) error {
	m.nextID++
	s.ID = m.nextID
	m.songs[s.ID] = s
	return nil
}

func (m *mockCatalogRepo) FindSongByID(ctx context.Context, id int64) (*domain.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockCatalogRepo) ListSongs(ctx context.Context, f repository.ListFilter) ([]*domain.Song, error) {
	m.lastFilter = f
	var out []*domain.Song
	for _, s := range m.songs {
		if f.Genre != 0 && s.Genre != f.Genre {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepo) UpdateSong(ctx context.Context, s *domain.Song) error {
	if _, ok := m.songs[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.updated++
	m.songs[s.ID] = s
	return nil
}

func (m *mockCatalogRepo) DeleteSong(ctx context.Context, id int64) error {
	if _, ok := m.songs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.songs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogRepo) IncrementPlayCount(ctx context.Context, id int64) (int64, error) {
	s, ok := m.songs[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	s.PlayCount++
	return s.PlayCount, nil
}

func (m *mockCatalogRepo) SongExists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.songs[id]
	return ok, nil
}

func (m *mockCatalogRepo) CreateAlbum(ctx context.Context, a *domain.Album) error {
	m.nextID++
	a.ID = m.nextID
	m.albums[a.ID] = a
	return nil
}

func (m *mockCatalogRepo) FindAlbumByID(ctx context.Context, id int64) (*domain.Album, error) {
	a, ok := m.albums[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockCatalogRepo) ListAlbums(ctx context.Context, f repository.ListFilter) ([]*domain.Album, error) {
	m.lastFilter = f
	var out []*domain.Album
	for _, a := range m.albums {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepo) UpdateAlbum(ctx context.Context, a *domain.Album) error {
	m.updated++
	m.albums[a.ID] = a
	return nil
}

func (m *mockCatalogRepo) DeleteAlbum(ctx context.Context, id int64) error {
	delete(m.albums, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogRepo) AlbumExists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.albums[id]
	return ok, nil
}

func (m *mockCatalogRepo) AddTrack(ctx context.Context, albumID, songID int64, trackNumber int) (*domain.AlbumTrack, error) {
	a := m.albums[albumID]
	for _, t := range a.Tracks {
		if t.SongID == songID || t.TrackNumber == trackNumber {
			return nil, repository.ErrConflict
		}
	}
	if trackNumber == 0 {
		trackNumber = len(a.Tracks) + 1
	}
	t := domain.AlbumTrack{AlbumID: albumID, SongID: songID, TrackNumber: trackNumber, Song: m.songs[songID]}
	a.Tracks = append(a.Tracks, t)
	return &t, nil
}

func (m *mockCatalogRepo) RemoveTrack(ctx context.Context, albumID, songID int64) error {
	a := m.albums[albumID]
	for i, t := range a.Tracks {
		if t.SongID == songID {
			a.Tracks = append(a.Tracks[:i], a.Tracks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubAggregates struct {
	averages map[int64]float64
	counts   map[int64]int64
}

func (s stubAggregates) AverageRating(ctx context.Context, kind domain.TargetKind, id int64) (*float64, error) {
	if v, ok := s.averages[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (s stubAggregates) CountComments(ctx context.Context, kind domain.TargetKind, id int64) (int64, error) {
	return s.counts[id], nil
}

type recordingCleaner struct {
	calls []domain.TargetKind
}

func (r *recordingCleaner) DeleteByTarget(ctx context.Context, kind domain.TargetKind, id int64) error {
	r.calls = append(r.calls, kind)
	return nil
}

type mockTargets struct {
	exists bool
	err    error
}

func (m mockTargets) TargetExists(ctx context.Context, kind domain.TargetKind, id int64) (bool, error) {
	return m.exists, m.err
}

type mockRatingRepo struct {
	ratings map[string]*domain.Rating
	stats   domain.RatingStats
}

func ratingKey(userID string, kind domain.TargetKind, id int64) string {
	return fmt.Sprintf("%s|%s|%d", userID, kind, id)
}

func (m *mockRatingRepo) Upsert(ctx context.Context, r *domain.Rating) (bool, error) {
	key := ratingKey(r.UserID, r.TargetKind, r.TargetID)
	if prev, ok := m.ratings[key]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
		m.ratings[key] = r
		return false, nil
	}
	m.ratings[key] = r
	return true, nil
}

func (m *mockRatingRepo) Delete(ctx context.Context, userID string, kind domain.TargetKind, id int64) error {
	key := ratingKey(userID, kind, id)
	if _, ok := m.ratings[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.ratings, key)
	return nil
}

func (m *mockRatingRepo) FindByUserAndTarget(ctx context.Context, userID string, kind domain.TargetKind, id int64) (*domain.Rating, error) {
	r, ok := m.ratings[ratingKey(userID, kind, id)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (m *mockRatingRepo) ListByTarget(ctx context.Context, kind domain.TargetKind, id int64) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for _, r := range m.ratings {
		if r.TargetKind == kind && r.TargetID == id {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRatingRepo) Stats(ctx context.Context, kind domain.TargetKind, id int64) (domain.RatingStats, error) {
	return m.stats, nil
}

func (m *mockRatingRepo) DeleteByTarget(ctx context.Context, kind domain.TargetKind, id int64) error {
	return nil
}

func (m *mockRatingRepo) AverageRating(ctx context.Context, kind domain.TargetKind, id int64) (*float64, error) {
	return m.stats.Average, nil
}

type mockCommentRepo struct {
	comments []domain.Comment
	deleted  []gocql.UUID
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	c.ID = gocql.TimeUUID()
	c.CreatedAt = c.ID.Time()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *mockCommentRepo) ListByTarget(ctx context.Context, kind domain.TargetKind, id int64, limit int) ([]domain.Comment, error) {
	return m.comments, nil
}

func (m *mockCommentRepo) Find(ctx context.Context, kind domain.TargetKind, id int64, commentID gocql.UUID) (*domain.Comment, error) {
	for _, c := range m.comments {
		if c.ID == commentID {
			cp := c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCommentRepo) Delete(ctx context.Context, c *domain.Comment) error {
	m.deleted = append(m.deleted, c.ID)
	return nil
}

func (m *mockCommentRepo) DeleteByTarget(ctx context.Context, kind domain.TargetKind, id int64) error {
	return nil
}

func (m *mockCommentRepo) CountComments(ctx context.Context, kind domain.TargetKind, id int64) (int64, error) {
	return int64(len(m.comments)), nil
}
