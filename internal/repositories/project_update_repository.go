package repositories

import (
	"context"

	"teamwork/internal/models"

	"github.com/google/uuid"
)

type ProjectUpdateRepository struct {
	db DBTX
}

func NewProjectUpdateRepository(db DBTX) *ProjectUpdateRepository {
	return &ProjectUpdateRepository{db: db}
}

// Create appends an update. The id comes from the BIGSERIAL sequence.
func (r *ProjectUpdateRepository) Create(ctx context.Context, update *models.ProjectUpdate) error {
	update.Prepare()

	query := `
		INSERT INTO project_updates (project_id, title, body, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRow(ctx, query,
		update.ProjectID,
		update.Title,
		update.Body,
		update.UserID,
		update.CreatedAt,
	).Scan(&update.ID)
}

func (r *ProjectUpdateRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectUpdate, error) {
	query := `
		SELECT id, project_id, title, body, user_id, created_at
		FROM project_updates WHERE project_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []models.ProjectUpdate
	for rows.Next() {
		var u models.ProjectUpdate
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Title, &u.Body, &u.UserID, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}
