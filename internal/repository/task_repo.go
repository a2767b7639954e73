package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flowtasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// sortColumns is the closed mapping from sort keys to SQL order expressions.
// Unknown keys fall back to creation time.
var sortColumns = map[domain.TaskSortKey]string{
	domain.SortByCreated:  "t.created_at",
	domain.SortBySummary:  "t.summary",
	domain.SortByPriority: "CASE t.priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END",
	domain.SortByStatus:   "t.status",
	domain.SortByDueDate:  "t.due_date",
}

const taskColumns = `
	t.id, t.key, t.summary, t.description, t.type, t.status, t.priority,
	t.project_id, t.assignee_id, t.reporter_id, t.due_date, t.labels,
	t.sprint_id, t.epic_id, t.parent_id, t.attachments, t.created_at, t.updated_at,
	r.id, r.email, r.first_name, r.last_name, r.avatar_url, r.created_at,
	a.id, a.email, a.first_name, a.last_name, a.avatar_url, a.created_at`

const taskJoins = `
	FROM tasks t
	JOIN users r ON r.id = t.reporter_id
	LEFT JOIN users a ON a.id = t.assignee_id`

// CreateWithHistory inserts the task and its "Created" history entry in one
// transaction. A duplicate (project_id, key) surfaces as a conflict so the
// caller can reallocate the key and retry.
func (r *TaskRepository) CreateWithHistory(ctx context.Context, t *domain.Task, h *domain.TaskHistory) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (key, summary, description, type, status, priority,
			project_id, assignee_id, reporter_id, due_date, labels,
			sprint_id, epic_id, parent_id, attachments)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at
	`, t.Key, t.Summary, t.Description, t.Type, t.Status, t.Priority,
		t.ProjectID, t.AssigneeID, t.ReporterID, t.DueDate, marshalStrings(t.Labels),
		t.SprintID, t.EpicID, t.ParentID, marshalStrings(t.Attachments)).Scan(&t.ID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return domain.NewConflictError("task key already exists")
	}
	if err != nil {
		return err
	}

	h.TaskID = t.ID
	if err := insertHistoryTx(ctx, tx, h); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateWithHistory writes the mutated task row and all of its history
// entries as one transaction, so a task is never mutated without its audit
// trail (or vice versa).
func (r *TaskRepository) UpdateWithHistory(ctx context.Context, t *domain.Task, entries []*domain.TaskHistory) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE tasks
		SET summary = $1, description = $2, type = $3, status = $4, priority = $5,
			assignee_id = $6, due_date = $7, labels = $8,
			sprint_id = $9, epic_id = $10, parent_id = $11, attachments = $12,
			updated_at = $13
		WHERE id = $14
	`, t.Summary, t.Description, t.Type, t.Status, t.Priority,
		t.AssigneeID, t.DueDate, marshalStrings(t.Labels),
		t.SprintID, t.EpicID, t.ParentID, marshalStrings(t.Attachments),
		t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("task")
	}

	for _, h := range entries {
		if err := insertHistoryTx(ctx, tx, h); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertHistoryTx(ctx context.Context, tx pgx.Tx, h *domain.TaskHistory) error {
	return tx.QueryRow(ctx, `
		INSERT INTO task_history (task_id, user_id, field, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, h.TaskID, h.UserID, h.Field, h.OldValue, h.NewValue, h.CreatedAt).Scan(&h.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT`+taskColumns+taskJoins+` WHERE t.id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("task")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CountByProject backs key allocation: next key number is count+1.
func (r *TaskRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

// ListByProject returns every task of a project for board aggregation.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT`+taskColumns+taskJoins+`
		WHERE t.project_id = $1
		ORDER BY t.created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListFiltered applies search/status/type/priority/assignee/sprint filters,
// orders by the sort key and paginates. Returns the page plus the unpaged
// total.
func (r *TaskRepository) ListFiltered(ctx context.Context, projectID string, f domain.TaskFilter) ([]*domain.Task, int, error) {
	where := []string{"t.project_id = $1"}
	args := []any{projectID}

	addArg := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Search != "" {
		addArg("(t.summary ILIKE $%[1]d OR t.description ILIKE $%[1]d OR t.key ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	if f.Status != nil {
		addArg("t.status = $%d", *f.Status)
	}
	if f.Type != nil {
		addArg("t.type = $%d", *f.Type)
	}
	if f.Priority != nil {
		addArg("t.priority = $%d", *f.Priority)
	}
	if f.AssigneeID != "" {
		addArg("t.assignee_id = $%d", f.AssigneeID)
	}
	if f.SprintID != "" {
		addArg("t.sprint_id = $%d", f.SprintID)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tasks t WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[f.SortBy]
	if !ok {
		orderCol = sortColumns[domain.SortByCreated]
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	offset := (page - 1) * pageSize

	query := `SELECT` + taskColumns + taskJoins +
		` WHERE ` + cond +
		` ORDER BY ` + orderCol + ` ` + dir +
		` LIMIT ` + strconv.Itoa(pageSize) + ` OFFSET ` + strconv.Itoa(offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Delete removes the task; comments and history cascade at the storage level.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("task")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var reporter domain.User
	var labels, attachments []byte
	// assignee columns come from a LEFT JOIN and may all be NULL
	var aID, aEmail, aFirst, aLast, aAvatar *string
	var aCreated *time.Time

	err := row.Scan(&t.ID, &t.Key, &t.Summary, &t.Description, &t.Type, &t.Status, &t.Priority,
		&t.ProjectID, &t.AssigneeID, &t.ReporterID, &t.DueDate, &labels,
		&t.SprintID, &t.EpicID, &t.ParentID, &attachments, &t.CreatedAt, &t.UpdatedAt,
		&reporter.ID, &reporter.Email, &reporter.FirstName, &reporter.LastName, &reporter.AvatarURL, &reporter.CreatedAt,
		&aID, &aEmail, &aFirst, &aLast, &aAvatar, &aCreated)
	if err != nil {
		return nil, err
	}

	t.Reporter = &reporter
	if aID != nil {
		assignee := &domain.User{ID: *aID, AvatarURL: aAvatar}
		if aEmail != nil {
			assignee.Email = *aEmail
		}
		if aFirst != nil {
			assignee.FirstName = *aFirst
		}
		if aLast != nil {
			assignee.LastName = *aLast
		}
		if aCreated != nil {
			assignee.CreatedAt = *aCreated
		}
		t.Assignee = assignee
	}

	t.Labels = unmarshalStrings(labels)
	t.Attachments = unmarshalStrings(attachments)
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// marshalStrings serializes a list for a jsonb column, keeping NULL for the
// empty case so history semantics can distinguish "no labels" cleanly.
func marshalStrings(vals []string) any {
	if len(vals) == 0 {
		return nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return nil
	}
	return b
}

func unmarshalStrings(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var vals []string
	if err := json.Unmarshal(b, &vals); err != nil {
		return nil
	}
	return vals
}
