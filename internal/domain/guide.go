package domain

import "time"

// Guide is a published self-help article. Title and Content are both non-empty.
type Guide struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
