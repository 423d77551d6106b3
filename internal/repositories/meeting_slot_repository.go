package repositories

import (
	"context"
	"errors"

	"teamwork/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MeetingSlotRepository struct {
	db DBTX
}

func NewMeetingSlotRepository(db DBTX) *MeetingSlotRepository {
	return &MeetingSlotRepository{db: db}
}

func (r *MeetingSlotRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.MeetingSlot, error) {
	query := `SELECT id, project_id, schedule, created_at FROM meeting_slots WHERE project_id = $1`

	var slot models.MeetingSlot
	err := r.db.QueryRow(ctx, query, projectID).Scan(&slot.ID, &slot.ProjectID, &slot.Schedule, &slot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// Create fails on the unique project_id index if a slot is still attached;
// callers delete the previous slot first.
func (r *MeetingSlotRepository) Create(ctx context.Context, slot *models.MeetingSlot) error {
	slot.Prepare()

	query := `
		INSERT INTO meeting_slots (id, project_id, schedule, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, slot.ID, slot.ProjectID, []byte(slot.Schedule), slot.CreatedAt)
	return err
}

func (r *MeetingSlotRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM meeting_slots WHERE project_id = $1`, projectID)
	return err
}
