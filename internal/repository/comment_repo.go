package repository

import (
	"context"
	"errors"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.TaskComment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO task_comments (task_id, user_id, content, mentions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.TaskID, c.UserID, c.Content, marshalStrings(c.Mentions)).Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.TaskComment, error) {
	var c domain.TaskComment
	var u domain.User
	var mentions []byte
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.task_id, c.user_id, c.content, c.mentions, c.created_at, c.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.created_at
		FROM task_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id).Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &mentions, &c.CreatedAt, &c.UpdatedAt,
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("comment")
	}
	if err != nil {
		return nil, err
	}
	c.User = &u
	c.Mentions = unmarshalStrings(mentions)
	return &c, nil
}

// ListByTask returns a task's comments, oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.task_id, c.user_id, c.content, c.mentions, c.created_at, c.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.created_at
		FROM task_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.TaskComment
	for rows.Next() {
		var c domain.TaskComment
		var u domain.User
		var mentions []byte
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &mentions, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		c.User = &u
		c.Mentions = unmarshalStrings(mentions)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// Update rewrites content and mentions; created_at is preserved.
func (r *CommentRepository) Update(ctx context.Context, c *domain.TaskComment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE task_comments
		SET content = $1, mentions = $2, updated_at = now()
		WHERE id = $3
	`, c.Content, marshalStrings(c.Mentions), c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("comment")
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM task_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("comment")
	}
	return nil
}
