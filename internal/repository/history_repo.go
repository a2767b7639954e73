package repository

import (
	"context"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository reads the append-only audit trail. Writes happen only
// through TaskRepository transactions, together with the task row they audit.
type HistoryRepository struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByTask returns a task's history, newest first.
func (r *HistoryRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT h.id, h.task_id, h.user_id, h.field, h.old_value, h.new_value, h.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.created_at
		FROM task_history h
		JOIN users u ON u.id = h.user_id
		WHERE h.task_id = $1
		ORDER BY h.created_at DESC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TaskHistory
	for rows.Next() {
		var h domain.TaskHistory
		var u domain.User
		if err := rows.Scan(&h.ID, &h.TaskID, &h.UserID, &h.Field, &h.OldValue, &h.NewValue, &h.CreatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		h.User = &u
		entries = append(entries, &h)
	}
	return entries, rows.Err()
}
