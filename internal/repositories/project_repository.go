package repositories

import (
	"context"
	"errors"

	"teamwork/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `p.id, p.slug, p.title, p.tagline, p.content, p.creator_id, p.avail_mem, p.sponsor,
	p.resource, p.weigh_interest, p.weigh_know, p.weigh_learn, p.created_at, p.updated_at`

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Slug,
		&project.Title,
		&project.Tagline,
		&project.Content,
		&project.CreatorID,
		&project.AvailMem,
		&project.Sponsor,
		&project.Resource,
		&project.WeighInterest,
		&project.WeighKnow,
		&project.WeighLearn,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.Prepare()

	query := `
		INSERT INTO projects (id, slug, title, tagline, content, creator_id, avail_mem, sponsor,
			resource, weigh_interest, weigh_know, weigh_learn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.Slug,
		project.Title,
		project.Tagline,
		project.Content,
		project.CreatorID,
		project.AvailMem,
		project.Sponsor,
		project.Resource,
		project.WeighInterest,
		project.WeighKnow,
		project.WeighLearn,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.slug = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

// Update overwrites every mutable column. Slug and creator are left alone.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.Prepare()

	query := `
		UPDATE projects SET
			title = $2, tagline = $3, content = $4, avail_mem = $5, sponsor = $6, resource = $7,
			weigh_interest = $8, weigh_know = $9, weigh_learn = $10, updated_at = $11
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Tagline,
		project.Content,
		project.AvailMem,
		project.Sponsor,
		project.Resource,
		project.WeighInterest,
		project.WeighKnow,
		project.WeighLearn,
		project.UpdatedAt,
	)
	return err
}

// Delete removes the project. Memberships, updates, skill links, course links
// and the meeting slot go with it through ON DELETE CASCADE.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	query := `
		SELECT DISTINCT ` + projectColumns + `
		FROM projects p
		LEFT JOIN memberships m ON m.project_id = p.id AND m.user_id = $1
		WHERE p.creator_id = $1 OR m.user_id IS NOT NULL
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) SetSkills(ctx context.Context, projectID uuid.UUID, skillIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM project_skills WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	for _, skillID := range skillIDs {
		_, err := r.db.Exec(ctx, `
			INSERT INTO project_skills (project_id, skill_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, projectID, skillID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepository) ListSkills(ctx context.Context, projectID uuid.UUID) ([]models.Skill, error) {
	query := `
		SELECT s.id, s.tag
		FROM project_skills ps
		JOIN skills s ON s.id = ps.skill_id
		WHERE ps.project_id = $1
		ORDER BY s.tag
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Tag); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	return skills, rows.Err()
}
