package repository

import (
	"context"
	"errors"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRepository answers project-scoped membership questions and manages
// membership rows. IsMember/IsAdmin are the authorization primitives every
// other operation gates on; "not found" means "not authorized", never an error.
type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2
		)
	`, projectID, userID).Scan(&exists)
	return exists, err
}

func (r *MemberRepository) IsAdmin(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_members
			WHERE project_id = $1 AND user_id = $2 AND role = $3
		)
	`, projectID, userID, domain.RoleAdmin).Scan(&exists)
	return exists, err
}

func (r *MemberRepository) Add(ctx context.Context, m *domain.ProjectMember) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`, m.ProjectID, m.UserID, m.Role).Scan(&m.ID, &m.JoinedAt)
	if isUniqueViolation(err) {
		return domain.NewConflictError("user is already a member of this project")
	}
	return err
}

func (r *MemberRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pm.id, pm.project_id, pm.user_id, pm.role, pm.joined_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.created_at
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ProjectMember
	for rows.Next() {
		var m domain.ProjectMember
		var u domain.User
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		m.User = &u
		members = append(members, &m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) Remove(ctx context.Context, projectID, userID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("member")
	}
	return nil
}

func (r *MemberRepository) Get(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	err := r.db.QueryRow(ctx, `
		SELECT id, project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`, projectID, userID).Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("member")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
