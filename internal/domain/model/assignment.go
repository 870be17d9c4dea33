package model

import (
	"time"

	"github.com/gosimple/slug"
)

// Assignment is an owned work item. The tuple (title, description,
// due_at, owner_id) is its natural key: repeated imports of the same
// row must resolve to the same record.
type Assignment struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	DueAt         time.Time `json:"due_at"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	OwnerUsername *string   `json:"owner_username,omitempty"` // For display
}

// NaturalKey identifies "the same" assignment across repeated imports.
type NaturalKey struct {
	Title       string
	Description string
	DueAt       time.Time
	OwnerID     string
}

func (a *Assignment) Key() NaturalKey {
	return NaturalKey{
		Title:       a.Title,
		Description: a.Description,
		DueAt:       a.DueAt,
		OwnerID:     a.OwnerID,
	}
}

// MakeSlug derives the public URL handle from a title.
func MakeSlug(title string) string {
	return slug.Make(title)
}
