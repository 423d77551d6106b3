package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"teamwork/internal/models"
	"teamwork/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillGetOrCreateConcurrent(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]models.Skill, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			skill, err := store.Skills().GetOrCreate(ctx, "python")
			assert.NoError(t, err)
			ids[i] = *skill
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.SkillCount())
	for _, skill := range ids {
		assert.Equal(t, ids[0].ID, skill.ID)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)

	errAbort := errors.New("abort")
	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		project := &models.Project{Slug: "phantom", Title: "Phantom", CreatorID: alice.ID}
		require.NoError(t, tx.Projects().Create(ctx, project))
		require.NoError(t, tx.Memberships().Create(ctx, &models.Membership{ProjectID: project.ID, UserID: alice.ID}))
		_, err := tx.Skills().GetOrCreate(ctx, "go")
		require.NoError(t, err)

		// Nested calls share the outer transaction.
		return tx.WithinTx(ctx, func(repositories.Store) error { return errAbort })
	})
	require.ErrorIs(t, err, errAbort)

	project, err := store.Projects().GetBySlug(ctx, "phantom")
	require.NoError(t, err)
	assert.Nil(t, project)
	assert.Equal(t, 0, store.SkillCount())

	projects, err := store.Projects().ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestWithinTxRollbackKeepsOtherWrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)
	project := &models.Project{Slug: "busy", Title: "Busy", CreatorID: alice.ID}
	require.NoError(t, store.Projects().Create(ctx, project))

	errAbort := errors.New("abort")
	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		require.NoError(t, tx.Projects().Update(ctx, &models.Project{ID: project.ID, Title: "Renamed"}))
		// Written outside the transaction while it is open.
		require.NoError(t, store.Updates().Create(ctx, &models.ProjectUpdate{ProjectID: project.ID, Title: "t", Body: "b", UserID: alice.ID}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	updates, err := store.Updates().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1)

	got, err := store.Projects().GetBySlug(ctx, "busy")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Busy", got.Title)
}

func TestWithinTxCommitKeepsOtherWrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)
	bob := store.MustAddUser("bob", false)
	project := &models.Project{Slug: "shared", Title: "Shared", CreatorID: alice.ID}
	require.NoError(t, store.Projects().Create(ctx, project))

	done := make(chan struct{})
	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		go func() {
			defer close(done)
			assert.NoError(t, store.Memberships().Create(ctx, &models.Membership{ProjectID: project.ID, UserID: bob.ID}))
		}()
		<-done
		return tx.Memberships().Create(ctx, &models.Membership{ProjectID: project.ID, UserID: alice.ID})
	})
	require.NoError(t, err)

	members, err := store.Memberships().ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestWithinTxCancelledBeforeCommit(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	alice := store.MustAddUser("alice", false)

	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		require.NoError(t, tx.Projects().Create(ctx, &models.Project{Slug: "late", Title: "Late", CreatorID: alice.ID}))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	project, err := store.Projects().GetBySlug(context.Background(), "late")
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestWithinTxSkillConflict(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)

	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		project := &models.Project{Slug: "clash", Title: "Clash", CreatorID: alice.ID}
		require.NoError(t, tx.Projects().Create(ctx, project))
		skill, err := tx.Skills().GetOrCreate(ctx, "rust")
		require.NoError(t, err)
		require.NoError(t, tx.Projects().SetSkills(ctx, project.ID, []uuid.UUID{skill.ID}))

		_, err = store.Skills().GetOrCreate(ctx, "rust")
		require.NoError(t, err)
		return nil
	})
	require.Error(t, err)

	project, err := store.Projects().GetBySlug(ctx, "clash")
	require.NoError(t, err)
	assert.Nil(t, project)
	assert.Equal(t, 1, store.SkillCount())
}

func TestWithinTxCommits(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)

	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		return tx.Projects().Create(ctx, &models.Project{Slug: "kept", Title: "Kept", CreatorID: alice.ID})
	})
	require.NoError(t, err)

	project, err := store.Projects().GetBySlug(ctx, "kept")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, alice.ID, project.CreatorID)
}

func TestProjectDeleteCascades(t *testing.T) {
	store := New()
	ctx := context.Background()
	prof := store.MustAddUser("prof", true)
	alice := store.MustAddUser("alice", false)
	course := store.MustAddCourse("cs101", prof, false)

	project := &models.Project{Slug: "gone", Title: "Gone", CreatorID: alice.ID}
	require.NoError(t, store.Projects().Create(ctx, project))
	other := &models.Project{Slug: "stays", Title: "Stays", CreatorID: alice.ID}
	require.NoError(t, store.Projects().Create(ctx, other))

	for _, p := range []*models.Project{project, other} {
		require.NoError(t, store.Memberships().Create(ctx, &models.Membership{ProjectID: p.ID, UserID: alice.ID}))
		require.NoError(t, store.Updates().Create(ctx, &models.ProjectUpdate{ProjectID: p.ID, Title: "t", Body: "b", UserID: alice.ID}))
		require.NoError(t, store.Meetings().Create(ctx, &models.MeetingSlot{ProjectID: p.ID, Schedule: []byte(`{}`)}))
		require.NoError(t, store.Courses().AttachProject(ctx, course.ID, p.ID))
	}

	require.NoError(t, store.Projects().Delete(ctx, project.ID))

	members, err := store.Memberships().ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
	updates, err := store.Updates().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, updates)
	slot, err := store.Meetings().GetByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, slot)
	attached, err := store.Courses().GetByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, attached)

	members, err = store.Memberships().ListMembers(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
	updates, err = store.Updates().ListByProject(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestDuplicates(t *testing.T) {
	store := New()
	ctx := context.Background()
	alice := store.MustAddUser("alice", false)

	require.NoError(t, store.Projects().Create(ctx, &models.Project{Slug: "one", Title: "One", CreatorID: alice.ID}))
	err := store.Projects().Create(ctx, &models.Project{Slug: "one", Title: "Again", CreatorID: alice.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSlug)

	err = store.Users().Create(ctx, &models.User{Username: "alice"})
	assert.Error(t, err)
}
