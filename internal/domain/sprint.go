package domain

import "time"

// Sprint is a project-scoped time window. At most one sprint per project is
// active: creating an active sprint deactivates prior ones in the same
// transaction.
type Sprint struct {
	ID        string     `db:"id" json:"id"`
	ProjectID string     `db:"project_id" json:"project_id"`
	Name      string     `db:"name" json:"name"`
	Goal      *string    `db:"goal" json:"goal,omitempty"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   time.Time  `db:"end_date" json:"end_date"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	// Populated on the read path only
	TaskCount int `db:"-" json:"task_count"`
}
