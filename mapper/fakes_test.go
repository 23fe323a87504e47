package mapper

import (
	"context"

	"github.com/annazecevic/catalog-service/domain"
)

type fakeAggregates struct {
	averages map[int64]float64
	counts   map[int64]int64
	avgErr   error
	countErr error

	avgCalls   []domain.TargetKind
	countCalls []domain.TargetKind
}

func (f *fakeAggregates) AverageRating(ctx context.Context, kind domain.TargetKind, id int64) (*float64, error) {
	f.avgCalls = append(f.avgCalls, kind)
	if f.avgErr != nil {
		return nil, f.avgErr
	}
	avg, ok := f.averages[id]
	if !ok {
		return nil, nil
	}
	return &avg, nil
}

func (f *fakeAggregates) CountComments(ctx context.Context, kind domain.TargetKind, id int64) (int64, error) {
	f.countCalls = append(f.countCalls, kind)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[id], nil
}
