package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flowtasks/internal/domain"
	"flowtasks/internal/logger"
)

// keyAllocRetries bounds the reallocation loop when two concurrent creates
// race on the per-project task count and collide on the same key.
const keyAllocRetries = 3

type CreateTaskRequest struct {
	Summary     string               `json:"summary"`
	Description *string              `json:"description,omitempty"`
	Type        domain.TaskType      `json:"type,omitempty"`
	Priority    domain.TaskPriority  `json:"priority,omitempty"`
	AssigneeID  *string              `json:"assignee_id,omitempty"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	Labels      []string             `json:"labels,omitempty"`
	SprintID    *string              `json:"sprint_id,omitempty"`
	EpicID      *string              `json:"epic_id,omitempty"`
	ParentID    *string              `json:"parent_id,omitempty"`
	Attachments []string             `json:"attachments,omitempty"`
}

type TaskPage struct {
	Items    []*domain.Task `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// TaskService orchestrates task mutations: membership gate, mutation,
// persistence, history append, then notification, in that order. The
// task+history write is durable before any event is emitted.
type TaskService struct {
	members  MembershipStore
	projects ProjectStore
	tasks    TaskStore
	history  HistoryStore
	notifier Notifier
}

func NewTaskService(members MembershipStore, projects ProjectStore, tasks TaskStore, history HistoryStore, notifier Notifier) *TaskService {
	return &TaskService{
		members:  members,
		projects: projects,
		tasks:    tasks,
		history:  history,
		notifier: notifier,
	}
}

// nextTaskKey derives the human-readable sequential task key from the current
// number of tasks in the project.
func nextTaskKey(prefix string, count int) string {
	return fmt.Sprintf("%s-%d", prefix, count+1)
}

func (s *TaskService) Create(ctx context.Context, projectID, userID string, req CreateTaskRequest) (*domain.Task, error) {
	ok, err := s.members.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Summary) == "" {
		return nil, domain.NewValidationError("summary is required")
	}
	taskType := req.Type
	if taskType == "" {
		taskType = domain.TypeTask
	}
	if !taskType.Valid() {
		return nil, domain.NewValidationError("invalid task type")
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.NewValidationError("invalid task priority")
	}

	var task *domain.Task
	for attempt := 0; ; attempt++ {
		count, err := s.tasks.CountByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		key := nextTaskKey(project.Key, count)

		task = &domain.Task{
			Key:         key,
			Summary:     req.Summary,
			Description: req.Description,
			Type:        taskType,
			Status:      domain.StatusToDo,
			Priority:    priority,
			ProjectID:   projectID,
			AssigneeID:  req.AssigneeID,
			ReporterID:  userID,
			DueDate:     req.DueDate,
			Labels:      req.Labels,
			SprintID:    req.SprintID,
			EpicID:      req.EpicID,
			ParentID:    req.ParentID,
			Attachments: req.Attachments,
		}
		created := &domain.TaskHistory{
			UserID:    userID,
			Field:     domain.FieldCreated,
			NewValue:  &key,
			CreatedAt: time.Now().UTC(),
		}

		err = s.tasks.CreateWithHistory(ctx, task, created)
		if err == nil {
			break
		}
		// Concurrent create in the same project took this key; recount and retry.
		if errors.Is(err, domain.ErrConflict) && attempt < keyAllocRetries {
			logger.Warn("task key collision, retrying", "project_id", projectID, "key", key)
			continue
		}
		return nil, err
	}

	s.notifier.TaskCreated(projectID, task.Key)

	// Reload so denormalized reporter/assignee data comes from the read path.
	return s.tasks.GetByID(ctx, task.ID)
}

// Get loads a task. NotFound precedes Forbidden here: the membership gate
// needs the project inferred from the task row, and task IDs are unguessable.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return task, nil
}

func (s *TaskService) ListFiltered(ctx context.Context, projectID, userID string, f domain.TaskFilter) (*TaskPage, error) {
	ok, err := s.members.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 25
	}

	items, total, err := s.tasks.ListFiltered(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	return &TaskPage{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *TaskService) Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	mutated, cs := ComputeChanges(task, patch, userID, time.Now().UTC())

	if err := s.tasks.UpdateWithHistory(ctx, mutated, cs.Entries); err != nil {
		return nil, err
	}

	// Per-field side signals first, the generic update event last.
	if cs.StatusChanged {
		s.notifier.TaskMoved(task.ProjectID, task.Key, mutated.Status.Display())
	}
	if cs.AssigneeChanged {
		s.notifier.UserAssigned(task.ProjectID, task.Key, mutated.AssigneeID)
	}
	s.notifier.TaskUpdated(task.ProjectID, task.Key)

	return s.tasks.GetByID(ctx, id)
}

// Delete requires project admin, stricter than Update.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.members.IsAdmin(ctx, task.ProjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("only project admins can delete tasks")
	}

	// Comments and history cascade at the storage level.
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.TaskDeleted(task.ProjectID, task.Key)
	return nil
}

// Board partitions a project's tasks into one bucket per status, empty
// buckets included, so clients can render fixed columns.
func (s *TaskService) Board(ctx context.Context, projectID, userID string) (*domain.Board, error) {
	ok, err := s.members.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board := &domain.Board{Columns: make(map[domain.TaskStatus][]*domain.Task, len(domain.AllStatuses))}
	for _, status := range domain.AllStatuses {
		board.Columns[status] = []*domain.Task{}
	}
	for _, t := range tasks {
		board.Columns[t.Status] = append(board.Columns[t.Status], t)
	}
	return board, nil
}

// History returns the audit trail for a task, newest first.
func (s *TaskService) History(ctx context.Context, taskID, userID string) ([]*domain.TaskHistory, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return s.history.ListByTask(ctx, taskID)
}

func validatePatch(patch domain.TaskPatch) error {
	if patch.Summary != nil && strings.TrimSpace(*patch.Summary) == "" {
		return domain.NewValidationError("summary cannot be empty")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return domain.NewValidationError("invalid task type")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.NewValidationError("invalid task status")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return domain.NewValidationError("invalid task priority")
	}
	return nil
}
