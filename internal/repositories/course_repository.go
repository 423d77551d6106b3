package repositories

import (
	"context"
	"errors"

	"teamwork/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `c.id, c.slug, c.name, c.creator_id, c.limit_creation, c.created_at`

type CourseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Slug,
		&course.Name,
		&course.CreatorID,
		&course.LimitCreation,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) collect(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}

	return courses, rows.Err()
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	course.Prepare()

	query := `
		INSERT INTO courses (id, slug, name, creator_id, limit_creation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		course.ID,
		course.Slug,
		course.Name,
		course.CreatorID,
		course.LimitCreation,
		course.CreatedAt,
	)
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM course_projects cp
		JOIN courses c ON c.id = cp.course_id
		WHERE cp.project_id = $1
		LIMIT 1
	`

	course, err := scanCourse(r.db.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) ListEnrolled(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY c.name
	`
	return r.collect(ctx, query, userID)
}

func (r *CourseRepository) ListOwned(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.creator_id = $1 ORDER BY c.name`
	return r.collect(ctx, query, userID)
}

func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)`
	err := r.db.QueryRow(ctx, query, courseID, userID).Scan(&exists)
	return exists, err
}

func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO enrollments (course_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, courseID, userID)
	return err
}

func (r *CourseRepository) AttachProject(ctx context.Context, courseID, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO course_projects (course_id, project_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, courseID, projectID)
	return err
}

func (r *CourseRepository) DetachProject(ctx context.Context, courseID, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM course_projects WHERE course_id = $1 AND project_id = $2`, courseID, projectID)
	return err
}
