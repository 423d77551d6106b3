package services

import (
	"context"
	"fmt"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"go.uber.org/zap"
)

// MembershipManager owns project rosters. Callers only see set-like
// operations; membership rows are never handed out for direct mutation.
type MembershipManager struct {
	store  repositories.Store
	logger *zap.Logger
}

func NewMembershipManager(store repositories.Store, logger *zap.Logger) *MembershipManager {
	return &MembershipManager{store: store, logger: logger}
}

func (m *MembershipManager) Members(ctx context.Context, project *models.Project) ([]models.User, error) {
	members, err := m.store.Memberships().ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ReplaceAll makes users the complete roster of project. Existing
// memberships are dropped, not merged.
func (m *MembershipManager) ReplaceAll(ctx context.Context, project *models.Project, users []models.User) error {
	if err := m.store.Memberships().DeleteByProject(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to clear memberships: %w", err)
	}

	for _, user := range users {
		membership := &models.Membership{ProjectID: project.ID, UserID: user.ID}
		if err := m.store.Memberships().Create(ctx, membership); err != nil {
			return fmt.Errorf("failed to add member %s: %w", user.Username, err)
		}
	}

	m.logger.Debug("roster replaced", zap.String("slug", project.Slug), zap.Int("members", len(users)))
	return nil
}

// AttachIfEligible adds the named user when they are enrolled in course.
// Unknown and non-enrolled users are skipped and reported with false.
func (m *MembershipManager) AttachIfEligible(ctx context.Context, project *models.Project, username string, course *models.Course) (bool, error) {
	user, err := m.store.Users().FindUserByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	if user == nil {
		return false, nil
	}

	enrolled, err := m.store.Courses().IsEnrolled(ctx, course.ID, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment for %s: %w", username, err)
	}
	if !enrolled {
		return false, nil
	}

	membership := &models.Membership{ProjectID: project.ID, UserID: user.ID}
	if err := m.store.Memberships().Create(ctx, membership); err != nil {
		return false, fmt.Errorf("failed to add member %s: %w", username, err)
	}
	return true, nil
}

// AttachCreatorIfNeeded puts the creator on the roster. Instructors
// supervise and are left off.
func (m *MembershipManager) AttachCreatorIfNeeded(ctx context.Context, project *models.Project, creator *models.User) error {
	if creator.IsInstructor {
		return nil
	}

	membership := &models.Membership{ProjectID: project.ID, UserID: creator.ID}
	if err := m.store.Memberships().Create(ctx, membership); err != nil {
		return fmt.Errorf("failed to add creator to roster: %w", err)
	}
	return nil
}

func (m *MembershipManager) Remove(ctx context.Context, project *models.Project, user *models.User) error {
	if err := m.store.Memberships().Delete(ctx, project.ID, user.ID); err != nil {
		return fmt.Errorf("failed to remove member %s: %w", user.Username, err)
	}
	return nil
}
