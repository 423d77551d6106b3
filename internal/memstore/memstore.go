// Package memstore is an in-process implementation of repositories.Store.
// It backs the memory storage driver and the service and handler tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"github.com/google/uuid"
)

var (
	errDuplicateUsername = errors.New("username already exists")
	errDuplicateCourse   = errors.New("course slug already exists")
	errMeetingExists     = errors.New("meeting slot already exists for project")
)

type courseProject struct {
	courseID  uuid.UUID
	projectID uuid.UUID
}

type data struct {
	users          map[uuid.UUID]models.User
	courses        map[uuid.UUID]models.Course
	enrollments    map[models.Enrollment]struct{}
	courseProjects map[courseProject]struct{}
	skills         map[string]models.Skill
	projects       map[uuid.UUID]models.Project
	projectSkills  map[uuid.UUID]map[uuid.UUID]struct{}
	memberships    []models.Membership
	updates        []models.ProjectUpdate
	meetings       map[uuid.UUID]models.MeetingSlot
	nextUpdateID   int64
}

func newData() *data {
	return &data{
		users:          map[uuid.UUID]models.User{},
		courses:        map[uuid.UUID]models.Course{},
		enrollments:    map[models.Enrollment]struct{}{},
		courseProjects: map[courseProject]struct{}{},
		skills:         map[string]models.Skill{},
		projects:       map[uuid.UUID]models.Project{},
		projectSkills:  map[uuid.UUID]map[uuid.UUID]struct{}{},
		meetings:       map[uuid.UUID]models.MeetingSlot{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.courses {
		c.courses[k] = v
	}
	for k := range d.enrollments {
		c.enrollments[k] = struct{}{}
	}
	for k := range d.courseProjects {
		c.courseProjects[k] = struct{}{}
	}
	for k, v := range d.skills {
		c.skills[k] = v
	}
	for k, v := range d.projects {
		c.projects[k] = v
	}
	for k, set := range d.projectSkills {
		cp := make(map[uuid.UUID]struct{}, len(set))
		for id := range set {
			cp[id] = struct{}{}
		}
		c.projectSkills[k] = cp
	}
	c.memberships = append([]models.Membership(nil), d.memberships...)
	c.updates = append([]models.ProjectUpdate(nil), d.updates...)
	for k, v := range d.meetings {
		c.meetings[k] = v
	}
	c.nextUpdateID = d.nextUpdateID
	return c
}

type state struct {
	mu sync.RWMutex
	d  *data
}

// op is a single write. Writes made inside a transaction run against the
// transaction's private copy and are replayed on the shared data at commit.
type op func(d *data) error

type txn struct {
	st  *state
	ops []op
}

// Store is safe for concurrent use. Transactions work on a private copy of
// the data, so a rollback never touches writes committed by others.
type Store struct {
	live *state
	txMu *sync.Mutex
	tx   *txn
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{live: &state{d: newData()}, txMu: &sync.Mutex{}}
}

func (s *Store) Projects() repositories.ProjectStore       { return projectStore{s} }
func (s *Store) Skills() repositories.SkillStore           { return skillStore{s} }
func (s *Store) Memberships() repositories.MembershipStore { return membershipStore{s} }
func (s *Store) Updates() repositories.UpdateStore         { return updateStore{s} }
func (s *Store) Meetings() repositories.MeetingStore       { return meetingStore{s} }
func (s *Store) Users() repositories.UserDirectory         { return userStore{s} }
func (s *Store) Courses() repositories.CourseStore         { return courseStore{s} }

// WithinTx runs fn against a private copy of the data. On success the
// writes fn made are replayed on the shared data under one lock; on error,
// or when ctx is done before commit, the copy is dropped.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.live.mu.RLock()
	tx := &txn{st: &state{d: s.live.d.clone()}}
	s.live.mu.RUnlock()

	if err := fn(&Store{live: s.live, txMu: s.txMu, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.live.mu.Lock()
	defer s.live.mu.Unlock()

	// The lock is held for the whole replay, so restoring this copy on a
	// conflict only discards the transaction's own writes.
	before := s.live.d.clone()
	for _, apply := range tx.ops {
		if err := apply(s.live.d); err != nil {
			s.live.d = before
			return fmt.Errorf("commit conflict: %w", err)
		}
	}
	return nil
}

// read returns the data visible to s: the transaction copy inside a
// transaction, the shared data otherwise.
func (s *Store) read() *state {
	if s.tx != nil {
		return s.tx.st
	}
	return s.live
}

func (s *Store) write(apply op) error {
	if s.tx != nil {
		s.tx.st.mu.Lock()
		defer s.tx.st.mu.Unlock()
		if err := apply(s.tx.st.d); err != nil {
			return err
		}
		s.tx.ops = append(s.tx.ops, apply)
		return nil
	}

	s.live.mu.Lock()
	defer s.live.mu.Unlock()
	return apply(s.live.d)
}

type projectStore struct{ s *Store }

func (p projectStore) Create(_ context.Context, project *models.Project) error {
	project.Prepare()
	row := *project
	return p.s.write(func(d *data) error {
		for _, existing := range d.projects {
			if existing.Slug == row.Slug {
				return repositories.ErrDuplicateSlug
			}
		}
		d.projects[row.ID] = row
		return nil
	})
}

func (p projectStore) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	st := p.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, project := range st.d.projects {
		if project.Slug == slug {
			return &project, nil
		}
	}
	return nil, nil
}

func (p projectStore) Update(_ context.Context, project *models.Project) error {
	project.Prepare()
	row := *project
	return p.s.write(func(d *data) error {
		existing, ok := d.projects[row.ID]
		if !ok {
			return nil
		}
		updated := row
		updated.Slug = existing.Slug
		updated.CreatorID = existing.CreatorID
		updated.CreatedAt = existing.CreatedAt
		d.projects[row.ID] = updated
		return nil
	})
}

func (p projectStore) Delete(_ context.Context, id uuid.UUID) error {
	return p.s.write(func(d *data) error {
		delete(d.projects, id)
		delete(d.projectSkills, id)
		delete(d.meetings, id)
		for cp := range d.courseProjects {
			if cp.projectID == id {
				delete(d.courseProjects, cp)
			}
		}

		var memberships []models.Membership
		for _, m := range d.memberships {
			if m.ProjectID != id {
				memberships = append(memberships, m)
			}
		}
		d.memberships = memberships

		var updates []models.ProjectUpdate
		for _, u := range d.updates {
			if u.ProjectID != id {
				updates = append(updates, u)
			}
		}
		d.updates = updates
		return nil
	})
}

func (p projectStore) ListForUser(_ context.Context, userID uuid.UUID) ([]models.Project, error) {
	st := p.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	member := map[uuid.UUID]bool{}
	for _, m := range st.d.memberships {
		if m.UserID == userID {
			member[m.ProjectID] = true
		}
	}

	var projects []models.Project
	for _, project := range st.d.projects {
		if project.CreatorID == userID || member[project.ID] {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].Slug < projects[j].Slug
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (p projectStore) SetSkills(_ context.Context, projectID uuid.UUID, skillIDs []uuid.UUID) error {
	ids := append([]uuid.UUID(nil), skillIDs...)
	return p.s.write(func(d *data) error {
		set := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		d.projectSkills[projectID] = set
		return nil
	})
}

func (p projectStore) ListSkills(_ context.Context, projectID uuid.UUID) ([]models.Skill, error) {
	st := p.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	set := st.d.projectSkills[projectID]
	var skills []models.Skill
	for _, skill := range st.d.skills {
		if _, ok := set[skill.ID]; ok {
			skills = append(skills, skill)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Tag < skills[j].Tag })
	return skills, nil
}

type skillStore struct{ s *Store }

func (s skillStore) GetOrCreate(_ context.Context, tag string) (*models.Skill, error) {
	candidate := models.Skill{ID: uuid.New(), Tag: tag}
	var skill models.Skill
	err := s.s.write(func(d *data) error {
		existing, ok := d.skills[tag]
		if !ok {
			d.skills[tag] = candidate
			skill = candidate
			return nil
		}
		// On replay the transaction may already hold links to candidate.
		if skill.ID != uuid.Nil && existing.ID != skill.ID {
			return fmt.Errorf("skill %q was created concurrently", tag)
		}
		skill = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// SkillCount reports the size of the shared skill vocabulary.
func (s *Store) SkillCount() int {
	st := s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.d.skills)
}

type membershipStore struct{ s *Store }

func (m membershipStore) Create(_ context.Context, membership *models.Membership) error {
	membership.Prepare()
	row := *membership
	return m.s.write(func(d *data) error {
		for _, existing := range d.memberships {
			if existing.ProjectID == row.ProjectID && existing.UserID == row.UserID {
				return nil
			}
		}
		d.memberships = append(d.memberships, row)
		return nil
	})
}

func (m membershipStore) Delete(_ context.Context, projectID, userID uuid.UUID) error {
	return m.s.write(func(d *data) error {
		var kept []models.Membership
		for _, existing := range d.memberships {
			if existing.ProjectID != projectID || existing.UserID != userID {
				kept = append(kept, existing)
			}
		}
		d.memberships = kept
		return nil
	})
}

func (m membershipStore) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	return m.s.write(func(d *data) error {
		var kept []models.Membership
		for _, existing := range d.memberships {
			if existing.ProjectID != projectID {
				kept = append(kept, existing)
			}
		}
		d.memberships = kept
		return nil
	})
}

func (m membershipStore) ListMembers(_ context.Context, projectID uuid.UUID) ([]models.User, error) {
	st := m.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []models.User
	for _, existing := range st.d.memberships {
		if existing.ProjectID != projectID {
			continue
		}
		if user, ok := st.d.users[existing.UserID]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type updateStore struct{ s *Store }

func (u updateStore) Create(_ context.Context, update *models.ProjectUpdate) error {
	update.Prepare()
	row := *update
	return u.s.write(func(d *data) error {
		d.nextUpdateID++
		row.ID = d.nextUpdateID
		update.ID = row.ID
		d.updates = append(d.updates, row)
		return nil
	})
}

func (u updateStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.ProjectUpdate, error) {
	st := u.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []models.ProjectUpdate
	for _, update := range st.d.updates {
		if update.ProjectID == projectID {
			out = append(out, update)
		}
	}
	return out, nil
}

type meetingStore struct{ s *Store }

func (m meetingStore) GetByProject(_ context.Context, projectID uuid.UUID) (*models.MeetingSlot, error) {
	st := m.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	slot, ok := st.d.meetings[projectID]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (m meetingStore) Create(_ context.Context, slot *models.MeetingSlot) error {
	slot.Prepare()
	row := *slot
	return m.s.write(func(d *data) error {
		if _, ok := d.meetings[row.ProjectID]; ok {
			return errMeetingExists
		}
		d.meetings[row.ProjectID] = row
		return nil
	})
}

func (m meetingStore) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	return m.s.write(func(d *data) error {
		delete(d.meetings, projectID)
		return nil
	})
}

type userStore struct{ s *Store }

func (u userStore) Create(_ context.Context, user *models.User) error {
	user.Prepare()
	row := *user
	return u.s.write(func(d *data) error {
		for _, existing := range d.users {
			if existing.Username == row.Username {
				return errDuplicateUsername
			}
		}
		d.users[row.ID] = row
		return nil
	})
}

func (u userStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	st := u.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	user, ok := st.d.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (u userStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	st := u.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, user := range st.d.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

type courseStore struct{ s *Store }

func (c courseStore) Create(_ context.Context, course *models.Course) error {
	course.Prepare()
	row := *course
	return c.s.write(func(d *data) error {
		for _, existing := range d.courses {
			if existing.Slug == row.Slug {
				return errDuplicateCourse
			}
		}
		d.courses[row.ID] = row
		return nil
	})
}

func (c courseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	st := c.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	course, ok := st.d.courses[id]
	if !ok {
		return nil, nil
	}
	return &course, nil
}

func (c courseStore) GetByProject(_ context.Context, projectID uuid.UUID) (*models.Course, error) {
	st := c.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	for cp := range st.d.courseProjects {
		if cp.projectID == projectID {
			if course, ok := st.d.courses[cp.courseID]; ok {
				return &course, nil
			}
		}
	}
	return nil, nil
}

func (c courseStore) ListEnrolled(_ context.Context, userID uuid.UUID) ([]models.Course, error) {
	st := c.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []models.Course
	for e := range st.d.enrollments {
		if e.UserID != userID {
			continue
		}
		if course, ok := st.d.courses[e.CourseID]; ok {
			out = append(out, course)
		}
	}
	sortCourses(out)
	return out, nil
}

func (c courseStore) ListOwned(_ context.Context, userID uuid.UUID) ([]models.Course, error) {
	st := c.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []models.Course
	for _, course := range st.d.courses {
		if course.CreatorID == userID {
			out = append(out, course)
		}
	}
	sortCourses(out)
	return out, nil
}

func (c courseStore) IsEnrolled(_ context.Context, courseID, userID uuid.UUID) (bool, error) {
	st := c.s.read()
	st.mu.RLock()
	defer st.mu.RUnlock()

	_, ok := st.d.enrollments[models.Enrollment{UserID: userID, CourseID: courseID}]
	return ok, nil
}

func (c courseStore) Enroll(_ context.Context, courseID, userID uuid.UUID) error {
	return c.s.write(func(d *data) error {
		d.enrollments[models.Enrollment{UserID: userID, CourseID: courseID}] = struct{}{}
		return nil
	})
}

func (c courseStore) AttachProject(_ context.Context, courseID, projectID uuid.UUID) error {
	return c.s.write(func(d *data) error {
		d.courseProjects[courseProject{courseID: courseID, projectID: projectID}] = struct{}{}
		return nil
	})
}

func (c courseStore) DetachProject(_ context.Context, courseID, projectID uuid.UUID) error {
	return c.s.write(func(d *data) error {
		delete(d.courseProjects, courseProject{courseID: courseID, projectID: projectID})
		return nil
	})
}

func sortCourses(courses []models.Course) {
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Name == courses[j].Name {
			return courses[i].CreatedAt.Before(courses[j].CreatedAt)
		}
		return courses[i].Name < courses[j].Name
	})
}

// Seed data for tests.

func (s *Store) MustAddUser(username string, instructor bool) models.User {
	user := models.User{Username: username, DisplayName: username, IsInstructor: instructor}
	if err := s.Users().Create(context.Background(), &user); err != nil {
		panic(err)
	}
	return user
}

func (s *Store) MustAddCourse(slug string, creator models.User, limitCreation bool) models.Course {
	course := models.Course{Slug: slug, Name: slug, CreatorID: creator.ID, LimitCreation: limitCreation, CreatedAt: time.Now().UTC()}
	if err := s.Courses().Create(context.Background(), &course); err != nil {
		panic(err)
	}
	return course
}

func (s *Store) MustEnroll(course models.Course, users ...models.User) {
	for _, user := range users {
		if err := s.Courses().Enroll(context.Background(), course.ID, user.ID); err != nil {
			panic(err)
		}
	}
}
