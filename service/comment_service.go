package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/gocql/gocql"
)

type CommentService interface {
	AddComment(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, content string) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, kind domain.TargetKind, targetID int64, limit int) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, commentID string) error
}

type commentService struct {
	repo    repository.CommentRepository
	targets TargetChecker
}

func NewCommentService(repo repository.CommentRepository, targets TargetChecker) CommentService {
	return &commentService{repo: repo, targets: targets}
}

func (s *commentService) AddComment(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, content string) (*dto.CommentResponse, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment must not be empty")
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return nil, invalid("comment must be at most %d characters", domain.MaxCommentLength)
	}
	if err := ensureTarget(ctx, s.targets, kind, targetID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		UserID:     actor.UserID,
		TargetKind: kind,
		TargetID:   targetID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(logger.EventCommentChange, "Comment created", logger.Fields(
		"comment_id", c.ID.String(),
		"user_id", actor.UserID,
		"target_kind", string(kind),
		"target_id", targetID,
	))
	resp := toCommentResponse(*c)
	return &resp, nil
}

// ListComments returns newest first.
func (s *commentService) ListComments(ctx context.Context, kind domain.TargetKind, targetID int64, limit int) ([]dto.CommentResponse, error) {
	if err := ensureTarget(ctx, s.targets, kind, targetID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListByTarget(ctx, kind, targetID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, kind domain.TargetKind, targetID int64, commentID string) error {
	if actor.UserID == "" {
		return ErrUnauthorized
	}
	id, err := gocql.ParseUUID(commentID)
	if err != nil {
		return invalid("malformed comment id")
	}

	c, err := s.repo.Find(ctx, kind, targetID, id)
	if err != nil {
		return fromRepo(err, "comment")
	}
	if c.UserID != actor.UserID && !actor.IsAdmin() {
		logger.Security(logger.EventAccessDenied, "Attempt to delete another user's comment", logger.Fields(
			"user_id", actor.UserID,
			"comment_id", commentID,
		))
		return fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}
	if err := s.repo.Delete(ctx, c); err != nil {
		return err
	}

	logger.Info(logger.EventCommentChange, "Comment deleted", logger.Fields(
		"comment_id", commentID,
		"user_id", actor.UserID,
	))
	return nil
}

func toCommentResponse(c domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID.String(),
		UserID:     c.UserID,
		TargetKind: string(c.TargetKind),
		TargetID:   c.TargetID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}
