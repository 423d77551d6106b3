package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MeetingSlot holds the schedule produced by the availability service.
// Schedule is kept as raw JSON; nothing here interprets it.
type MeetingSlot struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID uuid.UUID       `json:"project_id"`
	Schedule  json.RawMessage `json:"schedule"`
	CreatedAt time.Time       `json:"created_at"`
}

func (m *MeetingSlot) Prepare() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}
