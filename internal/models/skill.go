package models

import "github.com/google/uuid"

// Skill is an entry in the shared skill vocabulary, keyed by its canonical tag.
type Skill struct {
	ID  uuid.UUID `json:"id"`
	Tag string    `json:"tag"`
}
