package dto

import (
	"time"

	"github.com/comtooin/support-center/internal/domain"
)

// GuideRequest is the create/update payload.
type GuideRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GuideResponse is one published article.
type GuideResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromGuide maps a guide onto the response schema.
func FromGuide(guide *domain.Guide) GuideResponse {
	return GuideResponse{
		ID:        guide.ID,
		Title:     guide.Title,
		Content:   guide.Content,
		CreatedAt: guide.CreatedAt,
		UpdatedAt: guide.UpdatedAt,
	}
}
