package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RatingRepository interface {
	// Upsert stores the user's rating on a target, replacing any earlier
	// value. created is true when no rating existed before.
	Upsert(ctx context.Context, rating *domain.Rating) (created bool, err error)
	Delete(ctx context.Context, userID string, kind domain.TargetKind, targetID int64) error
	FindByUserAndTarget(ctx context.Context, userID string, kind domain.TargetKind, targetID int64) (*domain.Rating, error)
	ListByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) ([]*domain.Rating, error)
	Stats(ctx context.Context, kind domain.TargetKind, targetID int64) (domain.RatingStats, error)
	DeleteByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) error

	AverageRating(ctx context.Context, kind domain.TargetKind, targetID int64) (*float64, error)
}

type ratingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) RatingRepository {
	collection := db.Collection("ratings")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "target_kind", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "target_kind", Value: 1}, {Key: "target_id", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn(logger.EventDBError, "Failed to create indexes for ratings", logger.Fields("error", err.Error()))
	}

	return &ratingRepository{collection: collection}
}

func targetFilter(kind domain.TargetKind, targetID int64) bson.M {
	return bson.M{"target_kind": kind, "target_id": targetID}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := targetFilter(rating.TargetKind, rating.TargetID)
	filter["user_id"] = rating.UserID

	update := bson.M{
		"$set": bson.M{
			"value":      rating.Value,
			"updated_at": rating.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":         rating.ID,
			"created_at": rating.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)
	var previous domain.Rating
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&previous)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return true, nil
	case err != nil:
		logger.Error(logger.EventDBError, "Error upserting rating", logger.Fields(
			"user_id", rating.UserID,
			"target_kind", string(rating.TargetKind),
			"target_id", rating.TargetID,
			"error", err.Error(),
		))
		return false, fmt.Errorf("failed to save rating: %w", err)
	}

	rating.ID = previous.ID
	rating.CreatedAt = previous.CreatedAt
	return false, nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID string, kind domain.TargetKind, targetID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := targetFilter(kind, targetID)
	filter["user_id"] = userID

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ratingRepository) FindByUserAndTarget(ctx context.Context, userID string, kind domain.TargetKind, targetID int64) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := targetFilter(kind, targetID)
	filter["user_id"] = userID

	var rating domain.Rating
	if err := r.collection.FindOne(ctx, filter).Decode(&rating); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch rating: %w", err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, targetFilter(kind, targetID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*domain.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) Stats(ctx context.Context, kind domain.TargetKind, targetID int64) (domain.RatingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "target_kind", Value: kind}, {Key: "target_id", Value: targetID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avgValue", Value: bson.D{{Key: "$avg", Value: "$value"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.RatingStats{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		AvgValue float64 `bson:"avgValue"`
		Count    int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return domain.RatingStats{}, fmt.Errorf("failed to decode aggregation result: %w", err)
	}

	if len(result) == 0 || result[0].Count == 0 {
		return domain.RatingStats{}, nil
	}
	avg := result[0].AvgValue
	return domain.RatingStats{Average: &avg, Count: result[0].Count}, nil
}

func (r *ratingRepository) AverageRating(ctx context.Context, kind domain.TargetKind, targetID int64) (*float64, error) {
	stats, err := r.Stats(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	return stats.Average, nil
}

func (r *ratingRepository) DeleteByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := r.collection.DeleteMany(ctx, targetFilter(kind, targetID)); err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}
	return nil
}
