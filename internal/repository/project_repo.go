package repository

import (
	"context"
	"errors"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project and its owner's admin membership in one
// transaction, so a project is never visible without an admin.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (key, name, description, avatar_url, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.Key, p.Name, p.Description, p.AvatarURL, p.OwnerID).Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return domain.NewConflictError("project key already exists")
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
	`, p.ID, p.OwnerID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	var owner domain.User
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.key, p.name, p.description, p.avatar_url, p.owner_id,
		       p.created_at, p.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.created_at,
		       (SELECT count(*) FROM project_members pm WHERE pm.project_id = p.id),
		       (SELECT count(*) FROM tasks t WHERE t.project_id = p.id)
		FROM projects p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.AvatarURL, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Email, &owner.FirstName, &owner.LastName, &owner.AvatarURL, &owner.CreatedAt,
		&p.MemberCount, &p.TaskCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("project")
	}
	if err != nil {
		return nil, err
	}
	p.Owner = &owner
	return &p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.key, p.name, p.description, p.avatar_url, p.owner_id,
		       p.created_at, p.updated_at,
		       (SELECT count(*) FROM project_members pm2 WHERE pm2.project_id = p.id),
		       (SELECT count(*) FROM tasks t WHERE t.project_id = p.id)
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.AvatarURL,
			&p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.MemberCount, &p.TaskCount); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Update changes name/description/avatar. The key is immutable after creation.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE projects
		SET name = $1, description = $2, avatar_url = $3, updated_at = now()
		WHERE id = $4
	`, p.Name, p.Description, p.AvatarURL, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("project")
	}
	return nil
}

// Delete removes the project; members, tasks and sprints cascade at the
// storage level.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("project")
	}
	return nil
}
