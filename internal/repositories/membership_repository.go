package repositories

import (
	"context"

	"teamwork/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository struct {
	db DBTX
}

func NewMembershipRepository(db DBTX) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	membership.Prepare()

	query := `
		INSERT INTO memberships (id, project_id, user_id, invite_reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		membership.ID,
		membership.ProjectID,
		membership.UserID,
		membership.InviteReason,
		membership.CreatedAt,
	)
	return err
}

func (r *MembershipRepository) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM memberships WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	return err
}

func (r *MembershipRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM memberships WHERE project_id = $1`, projectID)
	return err
}

func (r *MembershipRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.created_at, u.username
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}
