package dto

import (
	"time"

	"github.com/comtooin/support-center/internal/domain"
)

// LoginRequest is the admin login payload.
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer credential.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminUpdateRequest applies a status change and/or appends a remark; either
// field may be omitted.
type AdminUpdateRequest struct {
	Status  domain.RequestStatus `json:"status"`
	Comment string               `json:"comment"`
}
