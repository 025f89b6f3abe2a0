package domain

import "time"

// Template represents a reusable program project template.
// Templates are lookup rows; projects reference them for display titles.
type Template struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
