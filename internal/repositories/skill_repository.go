package repositories

import (
	"context"

	"teamwork/internal/models"

	"github.com/google/uuid"
)

type SkillRepository struct {
	db DBTX
}

func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

// GetOrCreate relies on the unique index on skills.tag. The no-op update makes
// RETURNING yield the existing row when the tag is already present, so
// concurrent callers converge on one row.
func (r *SkillRepository) GetOrCreate(ctx context.Context, tag string) (*models.Skill, error) {
	query := `
		INSERT INTO skills (id, tag) VALUES ($1, $2)
		ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
		RETURNING id, tag
	`

	var skill models.Skill
	if err := r.db.QueryRow(ctx, query, uuid.New(), tag).Scan(&skill.ID, &skill.Tag); err != nil {
		return nil, err
	}
	return &skill, nil
}
