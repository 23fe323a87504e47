package domain

import "time"

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

type Rating struct {
	ID         string     `bson:"id" json:"id"`
	UserID     string     `bson:"user_id" json:"user_id"`
	TargetKind TargetKind `bson:"target_kind" json:"target_kind"`
	TargetID   int64      `bson:"target_id" json:"target_id"`
	Value      int        `bson:"value" json:"value"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// RatingStats is the aggregate of every rating on one target. Average is
// nil when Count is zero.
type RatingStats struct {
	Average *float64
	Count   int64
}
