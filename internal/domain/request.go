package domain

import "time"

// RequestStatus enumerates lifecycle states for support requests. The state is
// a plain label: an administrator may set any of the three values at any time.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusResolved   RequestStatus = "RESOLVED"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusResolved:
		return true
	}
	return false
}

// Request is the aggregate for a submitted support request. SecretHash is the
// bcrypt hash of the submitter's password and must never leave the service.
type Request struct {
	ID           int64
	CustomerName string
	UserName     string
	SecretHash   string
	Email        string
	Content      string
	Images       []string
	Status       RequestStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment is an administrator-authored remark on a request. Immutable once
// created; deleted only as a cascade of request deletion.
type Comment struct {
	ID        int64
	RequestID int64
	Comment   string
	CreatedAt time.Time
}
