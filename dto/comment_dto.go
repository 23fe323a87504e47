package dto

import "time"

type CreateCommentRequest struct {
	Content string `json:"contenido" binding:"required,min=1,max=1000"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"idUsuario"`
	TargetKind string    `json:"tipo"`
	TargetID   int64     `json:"idElemento"`
	Content    string    `json:"contenido"`
	CreatedAt  time.Time `json:"fechaCreacion"`
}
