package events

import (
	"time"

	"github.com/comtooin/support-center/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestSubmitted     EventType = "request_submitted"
	EventRequestStatusChanged EventType = "request_status_changed"
)

// RequestSnapshot carries the ticket fields notifications need. The secret
// hash is deliberately absent.
type RequestSnapshot struct {
	ID           int64                `json:"id"`
	CustomerName string               `json:"customer_name"`
	UserName     string               `json:"user_name"`
	Email        string               `json:"email,omitempty"`
	Content      string               `json:"content"`
	Status       domain.RequestStatus `json:"status"`
}

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Request   RequestSnapshot `json:"request"`

	// NewStatus is set for request_status_changed.
	NewStatus domain.RequestStatus `json:"new_status,omitempty"`
}

// Snapshot builds a RequestSnapshot from a request aggregate.
func Snapshot(req *domain.Request) RequestSnapshot {
	return RequestSnapshot{
		ID:           req.ID,
		CustomerName: req.CustomerName,
		UserName:     req.UserName,
		Email:        req.Email,
		Content:      req.Content,
		Status:       req.Status,
	}
}
