package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/gocql/gocql"
)

// CommentsSchema creates the comments table. Comments are partitioned by
// target so that listing and counting stay single-partition reads.
const CommentsSchema = `CREATE TABLE IF NOT EXISTS comments_by_target (
	target_kind text,
	target_id bigint,
	created_at timestamp,
	id timeuuid,
	user_id text,
	content text,
	PRIMARY KEY ((target_kind, target_id), created_at, id)
) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByTarget(ctx context.Context, kind domain.TargetKind, targetID int64, limit int) ([]domain.Comment, error)
	Find(ctx context.Context, kind domain.TargetKind, targetID int64, id gocql.UUID) (*domain.Comment, error)
	Delete(ctx context.Context, c *domain.Comment) error
	DeleteByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) error

	CountComments(ctx context.Context, kind domain.TargetKind, targetID int64) (int64, error)
}

type commentRepository struct {
	session *gocql.Session
}

func NewCommentRepository(session *gocql.Session) CommentRepository {
	if err := session.Query(CommentsSchema).Exec(); err != nil {
		logger.Warn(logger.EventDBError, "Failed to create comments table", logger.Fields("error", err.Error()))
	}
	return &commentRepository{session: session}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == (gocql.UUID{}) {
		c.ID = gocql.TimeUUID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.ID.Time()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `INSERT INTO comments_by_target (target_kind, target_id, created_at, id, user_id, content)
	          VALUES (?, ?, ?, ?, ?, ?)`
	err := r.session.Query(query,
		string(c.TargetKind), c.TargetID, c.CreatedAt, c.ID, c.UserID, c.Content,
	).WithContext(ctx).Exec()
	if err != nil {
		logger.Error(logger.EventDBError, "Error creating comment", logger.Fields(
			"target_kind", string(c.TargetKind),
			"target_id", c.TargetID,
			"error", err.Error(),
		))
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, kind domain.TargetKind, targetID int64, limit int) ([]domain.Comment, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT id, user_id, content, created_at
	          FROM comments_by_target
	          WHERE target_kind = ? AND target_id = ?
	          LIMIT ?`
	iter := r.session.Query(query, string(kind), targetID, limit).WithContext(ctx).Iter()

	var comments []domain.Comment
	c := domain.Comment{TargetKind: kind, TargetID: targetID}
	for iter.Scan(&c.ID, &c.UserID, &c.Content, &c.CreatedAt) {
		comments = append(comments, c)
		c = domain.Comment{TargetKind: kind, TargetID: targetID}
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, nil
}

// Find relies on the time component of the id matching created_at, which
// Create guarantees.
func (r *commentRepository) Find(ctx context.Context, kind domain.TargetKind, targetID int64, id gocql.UUID) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := domain.Comment{TargetKind: kind, TargetID: targetID}
	query := `SELECT id, user_id, content, created_at
	          FROM comments_by_target
	          WHERE target_kind = ? AND target_id = ? AND created_at = ? AND id = ?`
	err := r.session.Query(query, string(kind), targetID, id.Time(), id).
		WithContext(ctx).
		Scan(&c.ID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM comments_by_target
	          WHERE target_kind = ? AND target_id = ? AND created_at = ? AND id = ?`
	if err := r.session.Query(query, string(c.TargetKind), c.TargetID, c.CreatedAt, c.ID).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *commentRepository) DeleteByTarget(ctx context.Context, kind domain.TargetKind, targetID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `DELETE FROM comments_by_target WHERE target_kind = ? AND target_id = ?`
	if err := r.session.Query(query, string(kind), targetID).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

func (r *commentRepository) CountComments(ctx context.Context, kind domain.TargetKind, targetID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var count int64
	query := `SELECT COUNT(*) FROM comments_by_target WHERE target_kind = ? AND target_id = ?`
	if err := r.session.Query(query, string(kind), targetID).WithContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
