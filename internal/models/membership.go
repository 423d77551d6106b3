package models

import (
	"time"

	"github.com/google/uuid"
)

type Membership struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	UserID       uuid.UUID `json:"user_id"`
	InviteReason string    `json:"invite_reason"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m *Membership) Prepare() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}
