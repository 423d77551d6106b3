package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectUpdate is an append-only status post. ID is assigned by storage.
type ProjectUpdate struct {
	ID        int64     `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *ProjectUpdate) Prepare() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}
