package entity

import "time"

// Category agrupa productos del catálogo. Slug es único.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
