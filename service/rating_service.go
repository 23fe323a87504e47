package service

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/mapper"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/google/uuid"
)

// TargetChecker reports whether a song or album exists in the catalog.
type TargetChecker interface {
	TargetExists(ctx context.Context, kind domain.TargetKind, id int64) (bool, error)
}

type RatingService interface {
	Rate(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, value int) (*dto.RatingResponse, error)
	RemoveRating(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) error
	GetUserRating(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) (*dto.RatingResponse, error)
	GetStats(ctx context.Context, kind domain.TargetKind, targetID int64) (*dto.RatingStatsResponse, error)
	// ListRatings returns every rating on a target, newest first. Admin only.
	ListRatings(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) ([]dto.RatingResponse, error)
}

type ratingService struct {
	repo    repository.RatingRepository
	targets TargetChecker
	now     func() time.Time
}

func NewRatingService(repo repository.RatingRepository, targets TargetChecker) RatingService {
	return &ratingService{repo: repo, targets: targets, now: time.Now}
}

func (s *ratingService) Rate(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, value int) (*dto.RatingResponse, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if value < domain.MinRatingValue || value > domain.MaxRatingValue {
		return nil, invalid("rating must be between %d and %d", domain.MinRatingValue, domain.MaxRatingValue)
	}
	if err := ensureTarget(ctx, s.targets, kind, targetID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rating := &domain.Rating{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		TargetKind: kind,
		TargetID:   targetID,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.repo.Upsert(ctx, rating)
	if err != nil {
		return nil, err
	}

	msg := "Rating updated"
	if created {
		msg = "Rating created"
	}
	logger.Info(logger.EventRatingChange, msg, logger.Fields(
		"user_id", actor.UserID,
		"target_kind", string(kind),
		"target_id", targetID,
		"value", value,
	))
	return toRatingResponse(rating), nil
}

func (s *ratingService) RemoveRating(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) error {
	if actor.UserID == "" {
		return ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, actor.UserID, kind, targetID); err != nil {
		return fromRepo(err, "rating")
	}
	logger.Info(logger.EventRatingChange, "Rating deleted", logger.Fields(
		"user_id", actor.UserID,
		"target_kind", string(kind),
		"target_id", targetID,
	))
	return nil
}

func (s *ratingService) GetUserRating(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) (*dto.RatingResponse, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	rating, err := s.repo.FindByUserAndTarget(ctx, actor.UserID, kind, targetID)
	if err != nil {
		return nil, fromRepo(err, "rating")
	}
	return toRatingResponse(rating), nil
}

func (s *ratingService) GetStats(ctx context.Context, kind domain.TargetKind, targetID int64) (*dto.RatingStatsResponse, error) {
	if err := ensureTarget(ctx, s.targets, kind, targetID); err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	return &dto.RatingStatsResponse{
		TargetKind: string(kind),
		TargetID:   targetID,
		Average:    mapper.RoundRating(stats.Average),
		Count:      stats.Count,
	}, nil
}

func (s *ratingService) ListRatings(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64) ([]dto.RatingResponse, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := ensureTarget(ctx, s.targets, kind, targetID); err != nil {
		return nil, err
	}
	ratings, err := s.repo.ListByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, *toRatingResponse(r))
	}
	return out, nil
}

func ensureTarget(ctx context.Context, targets TargetChecker, kind domain.TargetKind, id int64) error {
	ok, err := targets.TargetExists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return nil
}

func toRatingResponse(r *domain.Rating) *dto.RatingResponse {
	return &dto.RatingResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		TargetKind: string(r.TargetKind),
		TargetID:   r.TargetID,
		Value:      r.Value,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
