package dto

import (
	"time"

	"github.com/comtooin/support-center/internal/domain"
	"github.com/comtooin/support-center/internal/service"
)

// CommentResponse is one administrator remark.
type CommentResponse struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestResponse is the ticket view returned by every read path. The secret
// is never part of it.
type RequestResponse struct {
	ID           int64                `json:"id"`
	CustomerName string               `json:"customer_name"`
	UserName     string               `json:"user_name"`
	Email        string               `json:"email"`
	Content      string               `json:"content"`
	Images       []string             `json:"images"`
	Status       domain.RequestStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Comments     []CommentResponse    `json:"comments"`
}

// AuthRequest is the self-service lookup payload.
type AuthRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// DeleteRequest carries the secret for self-service deletion.
type DeleteRequest struct {
	Password string `json:"password"`
}

// FromRequestView maps a service view onto the response schema.
func FromRequestView(view *service.RequestView) RequestResponse {
	comments := make([]CommentResponse, 0, len(view.Comments))
	for _, c := range view.Comments {
		comments = append(comments, CommentResponse{
			ID:        c.ID,
			RequestID: c.RequestID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		})
	}
	images := view.Request.Images
	if images == nil {
		images = []string{}
	}
	return RequestResponse{
		ID:           view.Request.ID,
		CustomerName: view.Request.CustomerName,
		UserName:     view.Request.UserName,
		Email:        view.Request.Email,
		Content:      view.Request.Content,
		Images:       images,
		Status:       view.Request.Status,
		CreatedAt:    view.Request.CreatedAt,
		UpdatedAt:    view.Request.UpdatedAt,
		Comments:     comments,
	}
}
