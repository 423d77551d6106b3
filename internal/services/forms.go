package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// ProjectForm holds the editable project fields. Weights are optional and
// default to 0.
type ProjectForm struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Tagline       string   `json:"tagline" validate:"max=255"`
	Content       string   `json:"content" validate:"max=4000"`
	Accepting     bool     `json:"accepting"`
	Sponsor       bool     `json:"sponsor"`
	Resource      string   `json:"resource" validate:"max=4000"`
	WeighInterest *int     `json:"weigh_interest" validate:"omitempty,min=0"`
	WeighKnow     *int     `json:"weigh_know" validate:"omitempty,min=0"`
	WeighLearn    *int     `json:"weigh_learn" validate:"omitempty,min=0"`
	DesiredSkills string   `json:"desired_skills" validate:"max=255"`
	Members       []string `json:"members" validate:"dive,max=150"`
}

type CreateProjectRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	Slug     string    `json:"slug" validate:"required,max=50,slug"`
	ProjectForm
}

// EditProjectRequest carries the complete desired roster in Members.
type EditProjectRequest struct {
	ProjectForm
}

type PostUpdateRequest struct {
	Title string `json:"update_title" validate:"required,max=255"`
	Body  string `json:"update" validate:"required,max=4000"`
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func cleanUsernames(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func weight(w *int) int {
	if w == nil {
		return 0
	}
	return *w
}
