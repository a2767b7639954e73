package domain

import "time"

// TaskHistory is an immutable audit record of one field change on one task.
// Rows are append-only: never mutated or deleted outside of task cascade.
type TaskHistory struct {
	ID        string    `db:"id" json:"id"`
	TaskID    string    `db:"task_id" json:"task_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	User      *User     `db:"-" json:"user,omitempty"`
	Field     string    `db:"field" json:"field"` // Created, Summary, Status, Assignee, ...
	OldValue  *string   `db:"old_value" json:"old_value,omitempty"`
	NewValue  *string   `db:"new_value" json:"new_value,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// History field names written by the change tracker.
const (
	FieldCreated     = "Created"
	FieldSummary     = "Summary"
	FieldDescription = "Description"
	FieldType        = "Type"
	FieldStatus      = "Status"
	FieldPriority    = "Priority"
	FieldAssignee    = "Assignee"
	FieldDueDate     = "DueDate"
	FieldLabels      = "Labels"
	FieldSprint      = "Sprint"
	FieldEpic        = "Epic"
	FieldParent      = "Parent"
)

// Sentinel strings for absent optional values in history entries.
const (
	ValueUnassigned = "Unassigned"
	ValueNone       = "None"
)
