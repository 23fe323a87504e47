package mapper

import (
	"context"
	"fmt"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/shopspring/decimal"
)

// RatingAggregator returns the mean rating of a target, or nil when the
// target has never been rated.
type RatingAggregator interface {
	AverageRating(ctx context.Context, kind domain.TargetKind, id int64) (*float64, error)
}

type CommentCounter interface {
	CountComments(ctx context.Context, kind domain.TargetKind, id int64) (int64, error)
}

type aggregates struct {
	ratings  RatingAggregator
	comments CommentCounter
}

func (a aggregates) fetch(ctx context.Context, kind domain.TargetKind, id int64) (*float64, int64, error) {
	avg, err := a.ratings.AverageRating(ctx, kind, id)
	if err != nil {
		return nil, 0, fmt.Errorf("average rating for %s %d: %w", kind, id, err)
	}
	count, err := a.comments.CountComments(ctx, kind, id)
	if err != nil {
		return nil, 0, fmt.Errorf("comment count for %s %d: %w", kind, id, err)
	}
	return RoundRating(avg), count, nil
}

// RoundRating rounds to two decimals, half away from zero. nil stays nil.
func RoundRating(avg *float64) *float64 {
	if avg == nil {
		return nil
	}
	rounded, _ := decimal.NewFromFloat(*avg).Round(2).Float64()
	return &rounded
}

func genreName(g domain.Genre) (string, error) {
	resolved, err := domain.GenreByID(g.ID())
	if err != nil {
		return "", err
	}
	return resolved.Name(), nil
}
