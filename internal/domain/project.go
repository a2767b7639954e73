package domain

import "time"

type ProjectRole string

const (
	RoleAdmin  ProjectRole = "admin"
	RoleMember ProjectRole = "member"
)

func (r ProjectRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Project struct {
	ID          string     `db:"id" json:"id"`
	Key         string     `db:"key" json:"key"` // e.g. FLOW, immutable after creation
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	OwnerID     string     `db:"owner_id" json:"owner_id"`
	Owner       *User      `db:"-" json:"owner,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	// Populated on the read path only
	MemberCount int `db:"-" json:"member_count"`
	TaskCount   int `db:"-" json:"task_count"`
}

// ProjectMember is the sole authorization primitive: one row per
// (project, user) pair.
type ProjectMember struct {
	ID        string      `db:"id" json:"id"`
	ProjectID string      `db:"project_id" json:"project_id"`
	UserID    string      `db:"user_id" json:"user_id"`
	User      *User       `db:"-" json:"user,omitempty"`
	Role      ProjectRole `db:"role" json:"role"`
	JoinedAt  time.Time   `db:"joined_at" json:"joined_at"`
}
