package repository

import (
	"context"
	"errors"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SprintRepository struct {
	db *pgxpool.Pool
}

func NewSprintRepository(db *pgxpool.Pool) *SprintRepository {
	return &SprintRepository{db: db}
}

// CreateActivating inserts an active sprint and deactivates every other
// active sprint of the project inside one transaction, keeping "at most one
// active sprint per project" an enforced invariant under concurrency.
func (r *SprintRepository) CreateActivating(ctx context.Context, s *domain.Sprint) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE sprints SET is_active = false, updated_at = now()
		WHERE project_id = $1 AND is_active
	`, s.ProjectID)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO sprints (project_id, name, goal, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, is_active, created_at
	`, s.ProjectID, s.Name, s.Goal, s.StartDate, s.EndDate).Scan(&s.ID, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SprintRepository) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	var s domain.Sprint
	err := r.db.QueryRow(ctx, `
		SELECT s.id, s.project_id, s.name, s.goal, s.start_date, s.end_date,
		       s.is_active, s.created_at, s.updated_at,
		       (SELECT count(*) FROM tasks t WHERE t.sprint_id = s.id)
		FROM sprints s
		WHERE s.id = $1
	`, id).Scan(&s.ID, &s.ProjectID, &s.Name, &s.Goal, &s.StartDate, &s.EndDate,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.TaskCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("sprint")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SprintRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.project_id, s.name, s.goal, s.start_date, s.end_date,
		       s.is_active, s.created_at, s.updated_at,
		       (SELECT count(*) FROM tasks t WHERE t.sprint_id = s.id)
		FROM sprints s
		WHERE s.project_id = $1
		ORDER BY s.created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprints []*domain.Sprint
	for rows.Next() {
		var s domain.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Goal, &s.StartDate, &s.EndDate,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.TaskCount); err != nil {
			return nil, err
		}
		sprints = append(sprints, &s)
	}
	return sprints, rows.Err()
}

func (r *SprintRepository) Update(ctx context.Context, s *domain.Sprint) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sprints
		SET name = $1, goal = $2, start_date = $3, end_date = $4, updated_at = now()
		WHERE id = $5
	`, s.Name, s.Goal, s.StartDate, s.EndDate, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("sprint")
	}
	return nil
}

func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("sprint")
	}
	return nil
}
