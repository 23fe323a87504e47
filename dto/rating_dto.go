package dto

import "time"

type RateRequest struct {
	Value int `json:"valoracion" binding:"required,min=1,max=5"`
}

type RatingResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"idUsuario"`
	TargetKind string    `json:"tipo"`
	TargetID   int64     `json:"idElemento"`
	Value      int       `json:"valoracion"`
	CreatedAt  time.Time `json:"fechaCreacion"`
	UpdatedAt  time.Time `json:"fechaActualizacion"`
}

type RatingStatsResponse struct {
	TargetKind string   `json:"tipo"`
	TargetID   int64    `json:"idElemento"`
	Average    *float64 `json:"valoracionMedia"`
	Count      int64    `json:"totalValoraciones"`
}
