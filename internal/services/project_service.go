package services

import (
	"context"
	"errors"
	"fmt"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectService runs the project lifecycle: create, edit, delete, post
// updates and schedule meetings. Every operation takes the acting user
// explicitly and checks the authorization policy before changing anything.
type ProjectService struct {
	store        repositories.Store
	availability AvailabilityFunc
	logger       *zap.Logger
}

func NewProjectService(store repositories.Store, availability AvailabilityFunc, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		store:        store,
		availability: availability,
		logger:       logger.Named("projects"),
	}
}

// CreateProjectResult reports the created project and the recruited
// usernames that were not added because they are unknown or not enrolled.
type CreateProjectResult struct {
	Project        *models.Project `json:"project"`
	SkippedMembers []string        `json:"skipped_members"`
}

// ResolveActor loads the user behind an authenticated request.
func (s *ProjectService) ResolveActor(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, actor *models.User, req CreateProjectRequest) (*CreateProjectResult, error) {
	var result *CreateProjectResult

	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		enrolled, err := tx.Courses().ListEnrolled(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("failed to list enrollments: %w", err)
		}
		owned, err := tx.Courses().ListOwned(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("failed to list owned courses: %w", err)
		}

		if !CanCreateProject(actor, enrolled, owned) {
			if len(enrolled) == 0 && len(owned) == 0 {
				return deny(ErrCreationDenied, "You need to join a course before creating projects!")
			}
			return deny(ErrCreationDenied, "Professor has disabled Project Creation!")
		}

		if err := validateForm(req); err != nil {
			return err
		}

		course, err := tx.Courses().GetByID(ctx, req.CourseID)
		if err != nil {
			return fmt.Errorf("failed to get course: %w", err)
		}
		if course == nil {
			return notFound("course")
		}
		if !containsCourse(enrolled, course.ID) && !containsCourse(owned, course.ID) {
			return invalid("course_id", "Select a course you are enrolled in.")
		}
		if course.LimitCreation && !actor.IsInstructor && !containsCourse(owned, course.ID) {
			return deny(ErrCreationDenied, "Professor has disabled Project Creation!")
		}

		project := &models.Project{
			Slug:      req.Slug,
			CreatorID: actor.ID,
		}
		applyForm(project, req.ProjectForm)

		if err := tx.Projects().Create(ctx, project); err != nil {
			if errors.Is(err, repositories.ErrDuplicateSlug) {
				return invalid("slug", "Project with this Slug already exists.")
			}
			return fmt.Errorf("failed to save project: %w", err)
		}

		if err := s.setDesiredSkills(ctx, tx, project, req.DesiredSkills); err != nil {
			return err
		}

		if err := tx.Courses().AttachProject(ctx, course.ID, project.ID); err != nil {
			return fmt.Errorf("failed to attach project to course: %w", err)
		}

		members := NewMembershipManager(tx, s.logger)
		var skipped []string
		for _, username := range cleanUsernames(req.Members) {
			added, err := members.AttachIfEligible(ctx, project, username, course)
			if err != nil {
				return err
			}
			if !added {
				skipped = append(skipped, username)
			}
		}

		if err := members.AttachCreatorIfNeeded(ctx, project, actor); err != nil {
			return err
		}

		result = &CreateProjectResult{Project: project, SkippedMembers: skipped}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.String("slug", result.Project.Slug),
		zap.String("creator", actor.Username),
		zap.Strings("skipped_members", result.SkippedMembers),
	)
	return result, nil
}

func (s *ProjectService) EditProject(ctx context.Context, actor *models.User, slug string, req EditProjectRequest) (*models.Project, error) {
	var project *models.Project

	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		project, err = getProject(ctx, tx, slug)
		if err != nil {
			return err
		}

		members := NewMembershipManager(tx, s.logger)
		current, err := members.Members(ctx, project)
		if err != nil {
			return err
		}
		if !CanEditOrDelete(actor, project, current) {
			return deny(ErrEditDenied, "Only Project Owner can edit project!")
		}

		if err := validateForm(req); err != nil {
			return err
		}

		roster, err := resolveUsers(ctx, tx, req.Members)
		if err != nil {
			return err
		}

		applyForm(project, req.ProjectForm)
		if err := tx.Projects().Update(ctx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		if err := s.setDesiredSkills(ctx, tx, project, req.DesiredSkills); err != nil {
			return err
		}

		return members.ReplaceAll(ctx, project, roster)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project edited", zap.String("slug", project.Slug), zap.String("actor", actor.Username))
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, actor *models.User, slug string) error {
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		project, err := getProject(ctx, tx, slug)
		if err != nil {
			return err
		}

		current, err := NewMembershipManager(tx, s.logger).Members(ctx, project)
		if err != nil {
			return err
		}
		if !CanEditOrDelete(actor, project, current) {
			return deny(ErrEditDenied, "Only Project Owner can delete project!")
		}

		course, err := tx.Courses().GetByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("failed to get course: %w", err)
		}
		if course != nil {
			if err := tx.Courses().DetachProject(ctx, course.ID, project.ID); err != nil {
				return fmt.Errorf("failed to detach project from course: %w", err)
			}
		}

		if err := tx.Projects().Delete(ctx, project.ID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", zap.String("slug", slug), zap.String("actor", actor.Username))
	return nil
}

func (s *ProjectService) PostUpdate(ctx context.Context, actor *models.User, slug string, req PostUpdateRequest) (*models.ProjectUpdate, error) {
	project, err := getProject(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}

	current, err := NewMembershipManager(s.store, s.logger).Members(ctx, project)
	if err != nil {
		return nil, err
	}
	if !CanPostUpdate(actor, project, current) {
		return nil, deny(ErrUpdateDenied, "Only current members can post an update for a project!")
	}

	if err := validateForm(req); err != nil {
		return nil, err
	}

	update := &models.ProjectUpdate{
		ProjectID: project.ID,
		Title:     req.Title,
		Body:      req.Body,
		UserID:    actor.ID,
	}
	if err := s.store.Updates().Create(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to save update: %w", err)
	}

	s.logger.Debug("update posted", zap.String("slug", slug), zap.Int64("update_id", update.ID))
	return update, nil
}

// ScheduleMeeting replaces the project's meeting slot. It runs outside a
// transaction: the availability lookup is an external call, and a failed
// lookup leaves the project without a slot.
func (s *ProjectService) ScheduleMeeting(ctx context.Context, slug string) (*models.MeetingSlot, error) {
	project, err := getProject(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	return NewMeetingSlotManager(s.store, s.availability, s.logger).Reschedule(ctx, project)
}

// RemoveMember takes a single user off the roster.
func (s *ProjectService) RemoveMember(ctx context.Context, actor *models.User, slug, username string) error {
	project, err := getProject(ctx, s.store, slug)
	if err != nil {
		return err
	}

	members := NewMembershipManager(s.store, s.logger)
	current, err := members.Members(ctx, project)
	if err != nil {
		return err
	}
	if !CanEditOrDelete(actor, project, current) {
		return deny(ErrEditDenied, "Only Project Owner can edit project!")
	}

	user, err := s.store.Users().FindUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return notFound("user")
	}
	return members.Remove(ctx, project, user)
}

// ListMyProjects returns the projects the actor created or belongs to.
func (s *ProjectService) ListMyProjects(ctx context.Context, actor *models.User) ([]models.Project, error) {
	projects, err := s.store.Projects().ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, slug string) (*models.ProjectDetail, error) {
	project, err := getProject(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}

	detail := &models.ProjectDetail{Project: *project}

	if detail.DesiredSkills, err = s.store.Projects().ListSkills(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	if detail.Members, err = s.store.Memberships().ListMembers(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if detail.Updates, err = s.store.Updates().ListByProject(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	if detail.Meeting, err = s.store.Meetings().GetByProject(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to get meeting slot: %w", err)
	}
	if detail.Course, err = s.store.Courses().GetByProject(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if detail.DesiredSkills == nil {
		detail.DesiredSkills = []models.Skill{}
	}
	if detail.Members == nil {
		detail.Members = []models.User{}
	}
	if detail.Updates == nil {
		detail.Updates = []models.ProjectUpdate{}
	}
	return detail, nil
}

func (s *ProjectService) setDesiredSkills(ctx context.Context, tx repositories.Store, project *models.Project, raw string) error {
	skills, err := NewSkillRegistry(tx.Skills()).RegisterAll(ctx, NormalizeSkills(raw))
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(skills))
	for _, skill := range skills {
		ids = append(ids, skill.ID)
	}
	if err := tx.Projects().SetSkills(ctx, project.ID, ids); err != nil {
		return fmt.Errorf("failed to set desired skills: %w", err)
	}
	return nil
}

func getProject(ctx context.Context, store repositories.Store, slug string) (*models.Project, error) {
	project, err := store.Projects().GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, notFound("project")
	}
	return project, nil
}

func resolveUsers(ctx context.Context, store repositories.Store, usernames []string) ([]models.User, error) {
	var users []models.User
	var unknown []FieldError
	for _, username := range cleanUsernames(usernames) {
		user, err := store.Users().FindUserByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to get user %s: %w", username, err)
		}
		if user == nil {
			unknown = append(unknown, FieldError{
				Field:   "members",
				Message: fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", username),
			})
			continue
		}
		users = append(users, *user)
	}
	if len(unknown) > 0 {
		return nil, &ValidationError{Fields: unknown}
	}
	return users, nil
}

func applyForm(project *models.Project, form ProjectForm) {
	project.Title = form.Title
	project.Tagline = form.Tagline
	project.Content = form.Content
	project.AvailMem = form.Accepting
	project.Sponsor = form.Sponsor
	project.Resource = form.Resource
	project.WeighInterest = weight(form.WeighInterest)
	project.WeighKnow = weight(form.WeighKnow)
	project.WeighLearn = weight(form.WeighLearn)
}

func containsCourse(courses []models.Course, id uuid.UUID) bool {
	for _, course := range courses {
		if course.ID == id {
			return true
		}
	}
	return false
}
