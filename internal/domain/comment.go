package domain

import "time"

// TaskComment is task-scoped free text. Mentions are the @email references
// extracted from the content. Editing preserves CreatedAt and sets UpdatedAt.
type TaskComment struct {
	ID        string     `db:"id" json:"id"`
	TaskID    string     `db:"task_id" json:"task_id"`
	UserID    string     `db:"user_id" json:"user_id"`
	User      *User      `db:"-" json:"user,omitempty"`
	Content   string     `db:"content" json:"content"`
	Mentions  []string   `db:"mentions" json:"mentions,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
