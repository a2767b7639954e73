package domain

import "time"

type TaskType string

const (
	TypeTask  TaskType = "task"
	TypeBug   TaskType = "bug"
	TypeStory TaskType = "story"
	TypeEpic  TaskType = "epic"
)

func (t TaskType) Valid() bool {
	switch t {
	case TypeTask, TypeBug, TypeStory, TypeEpic:
		return true
	}
	return false
}

// Display returns the human-readable form used in history entries.
func (t TaskType) Display() string {
	switch t {
	case TypeTask:
		return "Task"
	case TypeBug:
		return "Bug"
	case TypeStory:
		return "Story"
	case TypeEpic:
		return "Epic"
	}
	return string(t)
}

type TaskStatus string

const (
	StatusToDo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// AllStatuses lists every status in board-column order. The board always
// renders one column per entry, empty or not.
var AllStatuses = []TaskStatus{
	StatusToDo,
	StatusInProgress,
	StatusInReview,
	StatusDone,
	StatusBlocked,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Display returns the human-readable form used in history entries and
// TaskMoved notifications.
func (s TaskStatus) Display() string {
	switch s {
	case StatusToDo:
		return "ToDo"
	case StatusInProgress:
		return "InProgress"
	case StatusInReview:
		return "InReview"
	case StatusDone:
		return "Done"
	case StatusBlocked:
		return "Blocked"
	}
	return string(s)
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Display returns the human-readable form used in history entries.
func (p TaskPriority) Display() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

type Task struct {
	ID          string       `db:"id" json:"id"`
	Key         string       `db:"key" json:"key"` // e.g. FLOW-12
	Summary     string       `db:"summary" json:"summary"`
	Description *string      `db:"description" json:"description,omitempty"`
	Type        TaskType     `db:"type" json:"type"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	ProjectID   string       `db:"project_id" json:"project_id"`
	AssigneeID  *string      `db:"assignee_id" json:"assignee_id,omitempty"`
	Assignee    *User        `db:"-" json:"assignee,omitempty"`
	ReporterID  string       `db:"reporter_id" json:"reporter_id"`
	Reporter    *User        `db:"-" json:"reporter,omitempty"`
	DueDate     *time.Time   `db:"due_date" json:"due_date,omitempty"`
	Labels      []string     `db:"labels" json:"labels,omitempty"`
	SprintID    *string      `db:"sprint_id" json:"sprint_id,omitempty"`
	EpicID      *string      `db:"epic_id" json:"epic_id,omitempty"`
	ParentID    *string      `db:"parent_id" json:"parent_id,omitempty"`
	Attachments []string     `db:"attachments" json:"attachments,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time   `db:"updated_at" json:"updated_at,omitempty"`
}

// TaskPatch is a partial update. A nil pointer leaves the field untouched;
// a pointer to the zero value ("" / zero time) clears an optional field.
// Attachments are replaced when present but never tracked in history.
type TaskPatch struct {
	Summary     *string       `json:"summary,omitempty"`
	Description *string       `json:"description,omitempty"`
	Type        *TaskType     `json:"type,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	AssigneeID  *string       `json:"assignee_id,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	SprintID    *string       `json:"sprint_id,omitempty"`
	EpicID      *string       `json:"epic_id,omitempty"`
	ParentID    *string       `json:"parent_id,omitempty"`
	Attachments []string      `json:"attachments,omitempty"`
}

// TaskSortKey is the closed set of sortable columns for filtered listing.
type TaskSortKey string

const (
	SortByCreated  TaskSortKey = "created"
	SortBySummary  TaskSortKey = "summary"
	SortByPriority TaskSortKey = "priority"
	SortByStatus   TaskSortKey = "status"
	SortByDueDate  TaskSortKey = "duedate"
)

// TaskFilter narrows and orders a project task listing.
type TaskFilter struct {
	Search     string
	Status     *TaskStatus
	Type       *TaskType
	Priority   *TaskPriority
	AssigneeID string
	SprintID   string
	SortBy     TaskSortKey
	SortDesc   bool
	Page       int
	PageSize   int
}

// Board is the status-partitioned view of a project's tasks. Every status
// bucket is present, including empty ones.
type Board struct {
	Columns map[TaskStatus][]*Task `json:"columns"`
}
