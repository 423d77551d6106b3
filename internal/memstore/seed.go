package memstore

import (
	"context"
	"fmt"
	"os"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Seed is the directory content loaded into a memory store at startup.
// Users carry fixed ids so that tokens can be minted for them ahead of time.
type Seed struct {
	Users   []SeedUser   `koanf:"users" validate:"dive"`
	Courses []SeedCourse `koanf:"courses" validate:"dive"`
}

type SeedUser struct {
	ID           string `koanf:"id" validate:"required,uuid"`
	Username     string `koanf:"username" validate:"required"`
	DisplayName  string `koanf:"display_name"`
	IsInstructor bool   `koanf:"is_instructor"`
}

type SeedCourse struct {
	Slug          string   `koanf:"slug" validate:"required"`
	Name          string   `koanf:"name"`
	Creator       string   `koanf:"creator" validate:"required"`
	LimitCreation bool     `koanf:"limit_creation"`
	Students      []string `koanf:"students"`
}

// LoadSeedFile reads a YAML seed file and applies it to s.
func (s *Store) LoadSeedFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load seed file %s: %w", path, err)
	}

	var seed Seed
	if err := k.Unmarshal("", &seed); err != nil {
		return fmt.Errorf("failed to unmarshal seed file %s: %w", path, err)
	}
	return s.Apply(ctx, seed)
}

// Apply inserts the seed's users, courses and enrollments in one
// transaction. Courses and enrollments name users by username.
func (s *Store) Apply(ctx context.Context, seed Seed) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(seed); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}

	return s.WithinTx(ctx, func(tx repositories.Store) error {
		for _, u := range seed.Users {
			user := models.User{
				ID:           uuid.MustParse(u.ID),
				Username:     u.Username,
				DisplayName:  u.DisplayName,
				IsInstructor: u.IsInstructor,
			}
			if user.DisplayName == "" {
				user.DisplayName = user.Username
			}
			if err := tx.Users().Create(ctx, &user); err != nil {
				return fmt.Errorf("user %s: %w", u.Username, err)
			}
		}

		for _, c := range seed.Courses {
			creator, err := seedUser(ctx, tx, c.Creator)
			if err != nil {
				return fmt.Errorf("course %s: %w", c.Slug, err)
			}
			course := models.Course{Slug: c.Slug, Name: c.Name, CreatorID: creator.ID, LimitCreation: c.LimitCreation}
			if course.Name == "" {
				course.Name = course.Slug
			}
			if err := tx.Courses().Create(ctx, &course); err != nil {
				return fmt.Errorf("course %s: %w", c.Slug, err)
			}

			for _, username := range c.Students {
				student, err := seedUser(ctx, tx, username)
				if err != nil {
					return fmt.Errorf("course %s: %w", c.Slug, err)
				}
				if err := tx.Courses().Enroll(ctx, course.ID, student.ID); err != nil {
					return fmt.Errorf("course %s: %w", c.Slug, err)
				}
			}
		}
		return nil
	})
}

func seedUser(ctx context.Context, tx repositories.Store, username string) (*models.User, error) {
	user, err := tx.Users().FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("unknown user %q", username)
	}
	return user, nil
}
