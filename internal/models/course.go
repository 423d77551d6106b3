package models

import (
	"time"

	"github.com/google/uuid"
)

// Course groups enrolled users and the projects created for it.
// LimitCreation restricts project creation to instructors.
type Course struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	CreatorID     uuid.UUID `json:"creator_id"`
	LimitCreation bool      `json:"limit_creation"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Course) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

type Enrollment struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
}
