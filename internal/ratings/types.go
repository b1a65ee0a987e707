package ratings

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
)

// RateInput is the wire body for rating a seller.
type RateInput struct {
	Score   int    `json:"puntuacion" validate:"required,min=1,max=5"`
	Comment string `json:"comentario" validate:"omitempty,max=1000"`
}

// RaterRef is the embedded rater view on rating payloads.
type RaterRef struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

// RatingDTO is the outbound representation of a stored rating.
type RatingDTO struct {
	ID            int64     `json:"id"`
	RaterID       int64     `json:"evaluadorId"`
	RatedID       int64     `json:"evaluadoId"`
	TransactionID int64     `json:"transaccionId"`
	Score         int       `json:"puntuacion"`
	Comment       string    `json:"comentario"`
	CreatedAt     time.Time `json:"fecha"`
	Rater         *RaterRef `json:"evaluador,omitempty"`
}

// RateResult carries the stored rating plus the seller's recomputed
// reputation.
type RateResult struct {
	Rating     RatingDTO `json:"calificacion"`
	Reputation float64   `json:"reputacion"`
}

func toDTO(rating models.Rating) RatingDTO {
	dto := RatingDTO{
		ID:            rating.ID,
		RaterID:       rating.RaterID,
		RatedID:       rating.RatedID,
		TransactionID: rating.TransactionID,
		Score:         rating.Score,
		Comment:       rating.Comment,
		CreatedAt:     rating.CreatedAt,
	}
	if rating.Rater != nil {
		dto.Rater = &RaterRef{
			ID:        rating.Rater.ID,
			Username:  rating.Rater.Username,
			FirstName: rating.Rater.FirstName,
			LastName:  rating.Rater.LastName,
		}
	}
	return dto
}
