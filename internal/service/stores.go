package service

import (
	"context"

	"flowtasks/internal/domain"
)

// Storage contracts consumed by the services. The pgx-backed implementations
// live in internal/repository; tests substitute mocks.

// MembershipStore is the authorization primitive: a missing row means "not
// authorized", never an error.
type MembershipStore interface {
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
	IsAdmin(ctx context.Context, projectID, userID string) (bool, error)
	Add(ctx context.Context, m *domain.ProjectMember) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMember, error)
	Remove(ctx context.Context, projectID, userID string) error
}

type TaskStore interface {
	CreateWithHistory(ctx context.Context, t *domain.Task, h *domain.TaskHistory) error
	UpdateWithHistory(ctx context.Context, t *domain.Task, entries []*domain.TaskHistory) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListFiltered(ctx context.Context, projectID string, f domain.TaskFilter) ([]*domain.Task, int, error)
	Delete(ctx context.Context, id string) error
}

type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type HistoryStore interface {
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskHistory, error)
}

type SprintStore interface {
	CreateActivating(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	Update(ctx context.Context, s *domain.Sprint) error
	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Create(ctx context.Context, c *domain.TaskComment) error
	GetByID(ctx context.Context, id string) (*domain.TaskComment, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskComment, error)
	Update(ctx context.Context, c *domain.TaskComment) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Notifier fans out named events to clients subscribed to a project's
// channel. Delivery is best-effort after durable commit: implementations log
// failures and never propagate them, so a notification problem cannot fail an
// operation whose write already succeeded.
type Notifier interface {
	TaskCreated(projectID, taskKey string)
	TaskUpdated(projectID, taskKey string)
	TaskMoved(projectID, taskKey, status string)
	TaskDeleted(projectID, taskKey string)
	CommentAdded(projectID, taskKey, commentID string)
	UserAssigned(projectID, taskKey string, assigneeID *string)
}
