package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"go.uber.org/zap"
)

// AvailabilityFunc computes a meeting schedule for a set of users. The
// returned JSON is stored as is. An empty result, or ErrNoAvailabilityFound,
// means no slot could be found.
type AvailabilityFunc func(ctx context.Context, members []models.User) (json.RawMessage, error)

// NoAvailability is used when no availability service is configured.
func NoAvailability(context.Context, []models.User) (json.RawMessage, error) {
	return nil, ErrNoAvailabilityFound
}

type MeetingSlotManager struct {
	store        repositories.Store
	availability AvailabilityFunc
	logger       *zap.Logger
}

func NewMeetingSlotManager(store repositories.Store, availability AvailabilityFunc, logger *zap.Logger) *MeetingSlotManager {
	if availability == nil {
		availability = NoAvailability
	}
	return &MeetingSlotManager{store: store, availability: availability, logger: logger}
}

// Reschedule drops the current slot, asks the availability function for a new
// one and stores it. When no slot can be found the project is left without one.
func (m *MeetingSlotManager) Reschedule(ctx context.Context, project *models.Project) (*models.MeetingSlot, error) {
	if err := m.store.Meetings().DeleteByProject(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to clear meeting slot: %w", err)
	}

	members, err := m.store.Memberships().ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	schedule, err := m.availability(ctx, members)
	if err != nil {
		if !errors.Is(err, ErrNoAvailabilityFound) {
			m.logger.Warn("availability lookup failed", zap.String("slug", project.Slug), zap.Error(err))
		}
		return nil, err
	}
	if isEmptySchedule(schedule) {
		return nil, ErrNoAvailabilityFound
	}

	slot := &models.MeetingSlot{ProjectID: project.ID, Schedule: schedule}
	if err := m.store.Meetings().Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to save meeting slot: %w", err)
	}

	m.logger.Info("meeting rescheduled", zap.String("slug", project.Slug), zap.Int("members", len(members)))
	return slot, nil
}

func isEmptySchedule(schedule json.RawMessage) bool {
	trimmed := bytes.TrimSpace(schedule)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
