package services

import (
	"context"
	"encoding/json"
	"testing"

	"teamwork/internal/memstore"
	"teamwork/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fixture is a course with an instructor, two enrolled students and one
// user who is not enrolled.
type fixture struct {
	store  *memstore.Store
	svc    *ProjectService
	prof   models.User
	alice  models.User
	bob    models.User
	carol  models.User
	course models.Course
}

func newFixture(t *testing.T, availability AvailabilityFunc) *fixture {
	t.Helper()

	store := memstore.New()
	f := &fixture{store: store}
	f.prof = store.MustAddUser("prof", true)
	f.alice = store.MustAddUser("alice", false)
	f.bob = store.MustAddUser("bob", false)
	f.carol = store.MustAddUser("carol", false)
	f.course = store.MustAddCourse("cs101", f.prof, false)
	store.MustEnroll(f.course, f.alice, f.bob)

	f.svc = NewProjectService(store, availability, zaptest.NewLogger(t))
	return f
}

func createRequest(f *fixture, slug string, members ...string) CreateProjectRequest {
	return CreateProjectRequest{
		CourseID: f.course.ID,
		Slug:     slug,
		ProjectForm: ProjectForm{
			Title:         "Project " + slug,
			Tagline:       "A tagline",
			Content:       "Some content",
			Accepting:     true,
			DesiredSkills: "Python, python , PYTHON, Go",
			Members:       members,
		},
	}
}

func (f *fixture) mustCreate(t *testing.T, actor models.User, slug string, members ...string) *models.Project {
	t.Helper()
	result, err := f.svc.CreateProject(context.Background(), &actor, createRequest(f, slug, members...))
	require.NoError(t, err)
	return result.Project
}

func (f *fixture) detail(t *testing.T, slug string) *models.ProjectDetail {
	t.Helper()
	detail, err := f.svc.GetProject(context.Background(), slug)
	require.NoError(t, err)
	return detail
}

func usernames(users []models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

// scheduleSequence returns an availability func that hands out the given
// schedules in order.
func scheduleSequence(schedules ...string) (AvailabilityFunc, *[][]models.User) {
	var calls [][]models.User
	return func(_ context.Context, members []models.User) (json.RawMessage, error) {
		calls = append(calls, members)
		if len(calls) > len(schedules) {
			return nil, ErrNoAvailabilityFound
		}
		return json.RawMessage(schedules[len(calls)-1]), nil
	}, &calls
}
