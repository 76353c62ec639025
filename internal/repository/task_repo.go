package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, priority, state, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.State, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TaskRepository) Create(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, user_id, title, description, priority, state, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.UserID, t.Title, t.Description, t.Priority, t.State, t.CompletedAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, apierror.NotFound("task not found", id)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

// ListByUser returns the user's tasks, optionally filtered by state.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, state string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, description = $3, priority = $4, state = $5, completed_at = $6, updated_at = $7
		 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Priority, t.State, t.CompletedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("task not found", t.ID)
	}
	return nil
}

// UpdateState stamps completed_at when the task enters the completed state
// and clears it when the task leaves it.
func (r *TaskRepository) UpdateState(ctx context.Context, id string, state string) (model.Task, error) {
	var completedAt *time.Time
	if state == model.TaskStateCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	t, err := scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks SET state = $2, completed_at = $3, updated_at = $4 WHERE id = $1
		 RETURNING `+taskColumns,
		id, state, completedAt, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, apierror.NotFound("task not found", id)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task state: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("task not found", id)
	}
	return nil
}

func (r *TaskRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TaskRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ── KPI aggregations ─────────────────────────────────────────────

func (r *TaskRepository) CountByState(ctx context.Context, userID string) ([]model.StateCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT state, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY state ORDER BY state`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("count tasks by state: %w", err)
	}
	defer rows.Close()

	counts := make([]model.StateCount, 0)
	for rows.Next() {
		var c model.StateCount
		if err := rows.Scan(&c.State, &c.Count); err != nil {
			return nil, fmt.Errorf("scan state count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *TaskRepository) CountPendingByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT priority, COUNT(*) FROM tasks
		 WHERE user_id = $1 AND state = 'pending'
		 GROUP BY priority ORDER BY priority`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("count pending by priority: %w", err)
	}
	defer rows.Close()

	counts := make([]model.PriorityCount, 0)
	for rows.Next() {
		var c model.PriorityCount
		if err := rows.Scan(&c.Priority, &c.Count); err != nil {
			return nil, fmt.Errorf("scan priority count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *TaskRepository) CountCompletedBetween(ctx context.Context, userID string, from time.Time, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE user_id = $1 AND state = 'completed' AND completed_at >= $2 AND completed_at <= $3`,
		userID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

// CompletedCountPerDay groups completed tasks by calendar day; days without
// completions are absent from the result and filled in by the KPI service.
func (r *TaskRepository) CompletedCountPerDay(ctx context.Context, userID string, from time.Time, to time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT (completed_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		 FROM tasks
		 WHERE user_id = $1 AND state = 'completed' AND completed_at >= $2 AND completed_at <= $3
		 GROUP BY day ORDER BY day`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count completed per day: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts[day.Format("2006-01-02")] = count
	}
	return counts, rows.Err()
}

func (r *TaskRepository) AvgCompletionMinutesByPriority(ctx context.Context, userID string) ([]model.PriorityCompletionAvg, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT priority,
		        AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 60.0),
		        COUNT(*)
		 FROM tasks
		 WHERE user_id = $1 AND state = 'completed' AND completed_at IS NOT NULL
		 GROUP BY priority ORDER BY priority`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("avg completion by priority: %w", err)
	}
	defer rows.Close()

	out := make([]model.PriorityCompletionAvg, 0)
	for rows.Next() {
		var row model.PriorityCompletionAvg
		if err := rows.Scan(&row.Priority, &row.AvgCompletionTimeMinutes, &row.TotalTasks); err != nil {
			return nil, fmt.Errorf("scan priority avg: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
