package models

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is owned by the user directory. IsInstructor is the elevated role:
// instructors supervise projects and are never placed on a roster automatically.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	IsInstructor bool      `json:"is_instructor"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Prepare() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Username = strings.TrimSpace(u.Username)
	u.DisplayName = html.EscapeString(strings.TrimSpace(u.DisplayName))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}
