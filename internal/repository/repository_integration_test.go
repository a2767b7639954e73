//go:build integration
// +build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userSeq int

func createTestUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()
	userSeq++
	u := &domain.User{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		FirstName:    "Test",
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), u))
	return u
}

func createTestProject(t *testing.T, pool *pgxpool.Pool, owner *domain.User, key string) *domain.Project {
	t.Helper()
	p := &domain.Project{Key: key, Name: key + " project", OwnerID: owner.ID}
	require.NoError(t, NewProjectRepository(pool).Create(context.Background(), p))
	return p
}

func TestUserRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	u := &domain.User{Email: "alice@example.com", PasswordHash: "hash", FirstName: "Alice"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)

	dup := &domain.User{Email: "alice@example.com", PasswordHash: "hash2"}
	require.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)
}

func TestProjectRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	projects := NewProjectRepository(pool)
	members := NewMemberRepository(pool)

	owner := createTestUser(t, pool)
	p := createTestProject(t, pool, owner, "FLOW")

	t.Run("owner becomes admin atomically", func(t *testing.T) {
		admin, err := members.IsAdmin(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, admin)

		got, err := projects.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.MemberCount)
		require.NotNil(t, got.Owner)
		assert.Equal(t, owner.Email, got.Owner.Email)
	})

	t.Run("duplicate key is a conflict", func(t *testing.T) {
		other := createTestUser(t, pool)
		dup := &domain.Project{Key: "FLOW", Name: "Other", OwnerID: other.ID}
		require.ErrorIs(t, projects.Create(ctx, dup), domain.ErrConflict)
	})

	t.Run("delete cascades membership", func(t *testing.T) {
		require.NoError(t, projects.Delete(ctx, p.ID))
		ok, err := members.IsMember(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemberRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	members := NewMemberRepository(pool)

	owner := createTestUser(t, pool)
	project := createTestProject(t, pool, owner, "MBR")
	user := createTestUser(t, pool)

	m := &domain.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: domain.RoleMember}
	require.NoError(t, members.Add(ctx, m))
	require.NotEmpty(t, m.ID)

	t.Run("duplicate membership is a conflict", func(t *testing.T) {
		dup := &domain.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: domain.RoleMember}
		require.ErrorIs(t, members.Add(ctx, dup), domain.ErrConflict)
	})

	t.Run("role queries distinguish member from admin", func(t *testing.T) {
		got, err := members.Get(ctx, project.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, got.Role)

		isMember, err := members.IsMember(ctx, project.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		isAdmin, err := members.IsAdmin(ctx, project.ID, user.ID)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})

	t.Run("listing joins user data", func(t *testing.T) {
		list, err := members.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.NotNil(t, list[0].User)
	})

	t.Run("remove then not found", func(t *testing.T) {
		require.NoError(t, members.Remove(ctx, project.ID, user.ID))
		require.ErrorIs(t, members.Remove(ctx, project.ID, user.ID), domain.ErrNotFound)
		_, err := members.Get(ctx, project.ID, user.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	tasks := NewTaskRepository(pool)
	history := NewHistoryRepository(pool)

	owner := createTestUser(t, pool)
	project := createTestProject(t, pool, owner, "TSK")

	newTask := func(key, summary string) *domain.Task {
		return &domain.Task{
			Key:        key,
			Summary:    summary,
			Type:       domain.TypeTask,
			Status:     domain.StatusToDo,
			Priority:   domain.PriorityMedium,
			ProjectID:  project.ID,
			ReporterID: owner.ID,
		}
	}

	t.Run("create writes task and history atomically", func(t *testing.T) {
		task := newTask("TSK-1", "First")
		key := task.Key
		h := &domain.TaskHistory{
			UserID:    owner.ID,
			Field:     domain.FieldCreated,
			NewValue:  &key,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, tasks.CreateWithHistory(ctx, task, h))
		require.NotEmpty(t, task.ID)

		entries, err := history.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.FieldCreated, entries[0].Field)
		require.NotNil(t, entries[0].User)
		assert.Equal(t, owner.Email, entries[0].User.Email)
	})

	t.Run("duplicate key in project is a conflict", func(t *testing.T) {
		task := newTask("TSK-1", "Duplicate")
		h := &domain.TaskHistory{UserID: owner.ID, Field: domain.FieldCreated, CreatedAt: time.Now().UTC()}
		require.ErrorIs(t, tasks.CreateWithHistory(ctx, task, h), domain.ErrConflict)
	})

	t.Run("update appends history entries", func(t *testing.T) {
		task := newTask("TSK-2", "Second")
		h := &domain.TaskHistory{UserID: owner.ID, Field: domain.FieldCreated, CreatedAt: time.Now().UTC()}
		require.NoError(t, tasks.CreateWithHistory(ctx, task, h))

		now := time.Now().UTC()
		task.Status = domain.StatusInProgress
		task.UpdatedAt = &now
		oldVal, newVal := "ToDo", "InProgress"
		entries := []*domain.TaskHistory{{
			TaskID: task.ID, UserID: owner.ID, Field: domain.FieldStatus,
			OldValue: &oldVal, NewValue: &newVal, CreatedAt: now,
		}}
		require.NoError(t, tasks.UpdateWithHistory(ctx, task, entries))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, got.Status)

		trail, err := history.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, trail, 2)
		// newest first
		assert.Equal(t, domain.FieldStatus, trail[0].Field)
	})

	t.Run("labels round-trip through jsonb", func(t *testing.T) {
		task := newTask("TSK-3", "Labeled")
		task.Labels = []string{"backend", "urgent"}
		h := &domain.TaskHistory{UserID: owner.ID, Field: domain.FieldCreated, CreatedAt: time.Now().UTC()}
		require.NoError(t, tasks.CreateWithHistory(ctx, task, h))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"backend", "urgent"}, got.Labels)
	})

	t.Run("filtered listing", func(t *testing.T) {
		status := domain.StatusInProgress
		items, total, err := tasks.ListFiltered(ctx, project.ID, domain.TaskFilter{
			Status: &status, SortBy: domain.SortByCreated, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "TSK-2", items[0].Key)

		items, total, err = tasks.ListFiltered(ctx, project.ID, domain.TaskFilter{
			Search: "label", SortBy: domain.SortBySummary, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "TSK-3", items[0].Key)
	})

	t.Run("delete cascades history", func(t *testing.T) {
		got, err := tasks.GetByID(ctx, taskByKey(t, pool, project.ID, "TSK-1"))
		require.NoError(t, err)
		require.NoError(t, tasks.Delete(ctx, got.ID))

		trail, err := history.ListByTask(ctx, got.ID)
		require.NoError(t, err)
		assert.Empty(t, trail)
	})
}

func taskByKey(t *testing.T, pool *pgxpool.Pool, projectID, key string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`SELECT id FROM tasks WHERE project_id = $1 AND key = $2`, projectID, key).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestSprintRepository_CreateActivating(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	sprints := NewSprintRepository(pool)

	owner := createTestUser(t, pool)
	project := createTestProject(t, pool, owner, "SPR")

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	first := &domain.Sprint{ProjectID: project.ID, Name: "Sprint 1", StartDate: start, EndDate: start.AddDate(0, 0, 14)}
	require.NoError(t, sprints.CreateActivating(ctx, first))
	assert.True(t, first.IsActive)

	second := &domain.Sprint{ProjectID: project.ID, Name: "Sprint 2", StartDate: start.AddDate(0, 0, 14), EndDate: start.AddDate(0, 0, 28)}
	require.NoError(t, sprints.CreateActivating(ctx, second))

	got1, err := sprints.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got1.IsActive)

	got2, err := sprints.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got2.IsActive)
}

func TestCommentRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	comments := NewCommentRepository(pool)
	tasks := NewTaskRepository(pool)

	owner := createTestUser(t, pool)
	project := createTestProject(t, pool, owner, "CMT")
	task := &domain.Task{
		Key: "CMT-1", Summary: "Commented", Type: domain.TypeTask,
		Status: domain.StatusToDo, Priority: domain.PriorityMedium,
		ProjectID: project.ID, ReporterID: owner.ID,
	}
	h := &domain.TaskHistory{UserID: owner.ID, Field: domain.FieldCreated, CreatedAt: time.Now().UTC()}
	require.NoError(t, tasks.CreateWithHistory(ctx, task, h))

	first := &domain.TaskComment{TaskID: task.ID, UserID: owner.ID, Content: "first", Mentions: []string{"bob@example.com"}}
	require.NoError(t, comments.Create(ctx, first))
	second := &domain.TaskComment{TaskID: task.ID, UserID: owner.ID, Content: "second"}
	require.NoError(t, comments.Create(ctx, second))

	list, err := comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// oldest first
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, []string{"bob@example.com"}, list[0].Mentions)

	created := list[0].CreatedAt
	list[0].Content = "edited"
	require.NoError(t, comments.Update(ctx, list[0]))

	got, err := comments.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, created.UTC(), got.CreatedAt.UTC())
	assert.NotNil(t, got.UpdatedAt)
}
