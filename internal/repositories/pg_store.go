package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgStore struct {
	pool *pgxpool.Pool
	db   DBTX

	projects    *ProjectRepository
	skills      *SkillRepository
	memberships *MembershipRepository
	updates     *ProjectUpdateRepository
	meetings    *MeetingSlotRepository
	users       *UserRepository
	courses     *CourseRepository
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	s := newPgStore(pool)
	s.pool = pool
	return s
}

func newPgStore(db DBTX) *PgStore {
	return &PgStore{
		db:          db,
		projects:    NewProjectRepository(db),
		skills:      NewSkillRepository(db),
		memberships: NewMembershipRepository(db),
		updates:     NewProjectUpdateRepository(db),
		meetings:    NewMeetingSlotRepository(db),
		users:       NewUserRepository(db),
		courses:     NewCourseRepository(db),
	}
}

func (s *PgStore) Projects() ProjectStore       { return s.projects }
func (s *PgStore) Skills() SkillStore           { return s.skills }
func (s *PgStore) Memberships() MembershipStore { return s.memberships }
func (s *PgStore) Updates() UpdateStore         { return s.updates }
func (s *PgStore) Meetings() MeetingStore       { return s.meetings }
func (s *PgStore) Users() UserDirectory         { return s.users }
func (s *PgStore) Courses() CourseStore         { return s.courses }

func (s *PgStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(newPgStore(tx))
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
