package domain

import (
	"time"

	"github.com/gocql/gocql"
)

const MaxCommentLength = 1000

type Comment struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"user_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   int64      `json:"target_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}
