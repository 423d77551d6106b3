package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a course project. Slug is assigned at creation and never changes.
type Project struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Tagline       string    `json:"tagline"`
	Content       string    `json:"content"`
	CreatorID     uuid.UUID `json:"creator_id"`
	AvailMem      bool      `json:"avail_mem"`
	Sponsor       bool      `json:"sponsor"`
	Resource      string    `json:"resource"`
	WeighInterest int       `json:"weigh_interest"`
	WeighKnow     int       `json:"weigh_know"`
	WeighLearn    int       `json:"weigh_learn"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Project) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// ProjectDetail is a project together with everything attached to it.
type ProjectDetail struct {
	Project
	Course        *Course         `json:"course,omitempty"`
	DesiredSkills []Skill         `json:"desired_skills"`
	Members       []User          `json:"members"`
	Updates       []ProjectUpdate `json:"updates"`
	Meeting       *MeetingSlot    `json:"meeting,omitempty"`
}
