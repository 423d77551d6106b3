package repositories

import (
	"context"
	"errors"

	"teamwork/internal/models"

	"github.com/google/uuid"
)

// ErrDuplicateSlug is returned when a project slug is already taken.
var ErrDuplicateSlug = errors.New("project slug already exists")

// Lookups return nil, nil when the row does not exist.

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListForUser returns projects created by the user or having the user on the roster.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	// SetSkills replaces the desired skill set of a project.
	SetSkills(ctx context.Context, projectID uuid.UUID, skillIDs []uuid.UUID) error
	ListSkills(ctx context.Context, projectID uuid.UUID) ([]models.Skill, error)
}

type SkillStore interface {
	// GetOrCreate is an atomic upsert keyed on the canonical tag.
	GetOrCreate(ctx context.Context, tag string) (*models.Skill, error)
}

type MembershipStore interface {
	// Create is a no-op when the (project, user) pair already exists.
	Create(ctx context.Context, membership *models.Membership) error
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.User, error)
}

type UpdateStore interface {
	Create(ctx context.Context, update *models.ProjectUpdate) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectUpdate, error)
}

type MeetingStore interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.MeetingSlot, error)
	Create(ctx context.Context, slot *models.MeetingSlot) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type UserDirectory interface {
	Create(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Course, error)
	ListEnrolled(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	Enroll(ctx context.Context, courseID, userID uuid.UUID) error
	AttachProject(ctx context.Context, courseID, projectID uuid.UUID) error
	DetachProject(ctx context.Context, courseID, projectID uuid.UUID) error
}

// Store groups every repository behind one handle so that a unit of work
// can run against a single transaction.
type Store interface {
	Projects() ProjectStore
	Skills() SkillStore
	Memberships() MembershipStore
	Updates() UpdateStore
	Meetings() MeetingStore
	Users() UserDirectory
	Courses() CourseStore

	// WithinTx runs fn against a transactional view of the store. Nested
	// calls reuse the outer transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
