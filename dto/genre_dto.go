package dto

type GenreResponse struct {
	ID   int    `json:"idGenero"`
	Name string `json:"nombreGenero"`
}
