package service

import (
	"context"

	"flowtasks/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockMembershipStore struct {
	mock.Mock
}

func (m *MockMembershipStore) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipStore) IsAdmin(ctx context.Context, projectID, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipStore) Add(ctx context.Context, member *domain.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMembershipStore) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProjectMember), args.Error(1)
}

func (m *MockMembershipStore) Remove(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) CreateWithHistory(ctx context.Context, t *domain.Task, h *domain.TaskHistory) error {
	args := m.Called(ctx, t, h)
	return args.Error(0)
}

func (m *MockTaskStore) UpdateWithHistory(ctx context.Context, t *domain.Task, entries []*domain.TaskHistory) error {
	args := m.Called(ctx, t, entries)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) CountByProject(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) ListFiltered(ctx context.Context, projectID string, f domain.TaskFilter) ([]*domain.Task, int, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Create(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectStore) ListByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectStore) Update(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskHistory, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskHistory), args.Error(1)
}

type MockSprintStore struct {
	mock.Mock
}

func (m *MockSprintStore) CreateActivating(ctx context.Context, s *domain.Sprint) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSprintStore) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sprint), args.Error(1)
}

func (m *MockSprintStore) ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Sprint), args.Error(1)
}

func (m *MockSprintStore) Update(ctx context.Context, s *domain.Sprint) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSprintStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Create(ctx context.Context, c *domain.TaskComment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentStore) GetByID(ctx context.Context, id string) (*domain.TaskComment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskComment), args.Error(1)
}

func (m *MockCommentStore) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskComment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskComment), args.Error(1)
}

func (m *MockCommentStore) Update(ctx context.Context, c *domain.TaskComment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotifier records emitted events in order so tests can assert both the
// set and the sequence of notifications.
type MockNotifier struct {
	mock.Mock
	Events []string
}

func (m *MockNotifier) TaskCreated(projectID, taskKey string) {
	m.Events = append(m.Events, "TaskCreated")
	m.Called(projectID, taskKey)
}

func (m *MockNotifier) TaskUpdated(projectID, taskKey string) {
	m.Events = append(m.Events, "TaskUpdated")
	m.Called(projectID, taskKey)
}

func (m *MockNotifier) TaskMoved(projectID, taskKey, status string) {
	m.Events = append(m.Events, "TaskMoved")
	m.Called(projectID, taskKey, status)
}

func (m *MockNotifier) TaskDeleted(projectID, taskKey string) {
	m.Events = append(m.Events, "TaskDeleted")
	m.Called(projectID, taskKey)
}

func (m *MockNotifier) CommentAdded(projectID, taskKey, commentID string) {
	m.Events = append(m.Events, "CommentAdded")
	m.Called(projectID, taskKey, commentID)
}

func (m *MockNotifier) UserAssigned(projectID, taskKey string, assigneeID *string) {
	m.Events = append(m.Events, "UserAssigned")
	m.Called(projectID, taskKey, assigneeID)
}
