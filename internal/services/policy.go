package services

import (
	"teamwork/internal/models"
)

// Authorization predicates. They never mutate anything and never fail; the
// caller turns a false result into a denial.

// CanCreateProject reports whether user may create a project given the
// courses they are enrolled in and the courses they created.
func CanCreateProject(user *models.User, enrolled, owned []models.Course) bool {
	if user == nil {
		return false
	}
	if len(enrolled) == 0 && len(owned) == 0 {
		return false
	}
	if user.IsInstructor {
		return true
	}
	// Owning a course is enough when the user attends none.
	if len(enrolled) == 0 {
		return true
	}
	for _, course := range enrolled {
		if !course.LimitCreation {
			return true
		}
	}
	return false
}

// CanEditOrDelete is true for the project creator and for anyone on the roster.
func CanEditOrDelete(user *models.User, project *models.Project, members []models.User) bool {
	if user == nil || project == nil {
		return false
	}
	if user.ID == project.CreatorID {
		return true
	}
	for _, member := range members {
		if member.ID == user.ID {
			return true
		}
	}
	return false
}

func CanPostUpdate(user *models.User, project *models.Project, members []models.User) bool {
	return CanEditOrDelete(user, project, members)
}
