package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, tx DBTX, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, tx DBTX, task *models.Task) error
	Delete(ctx context.Context, tx DBTX, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `
	t.id, t.title, t.description, t.status, t.created_by_id, t.assigned_to_id,
	t.created_at, t.updated_at,
	c.id, c.name, c.email, c.role,
	a.id, a.name, a.email, a.role`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.created_by_id
	LEFT JOIN users a ON a.id = t.assigned_to_id`

func (r *taskRepository) Store(ctx context.Context, tx DBTX, task *models.Task) error {
	const q = `
		INSERT INTO tasks (title, description, status, created_by_id, assigned_to_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		task.Title, task.Description, task.Status, task.CreatedByID, task.AssignedToID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	q := `SELECT ` + taskColumns + taskJoins + ` WHERE t.id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + taskJoins

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.AssignedToID != nil {
		conditions = append(conditions, fmt.Sprintf("t.assigned_to_id = $%d", argID))
		args = append(args, *filter.AssignedToID)
		argID++
	}

	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, tx DBTX, task *models.Task) error {
	const q = `
		UPDATE tasks SET
			title=$1, description=$2, status=$3, assigned_to_id=$4, updated_at=NOW()
		WHERE id=$5
		RETURNING updated_at`
	err := tx.QueryRowContext(ctx, q,
		task.Title, task.Description, task.Status, task.AssignedToID, task.ID,
	).Scan(&task.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperrors.ErrTaskNotFound
	}
	return err
}

func (r *taskRepository) Delete(ctx context.Context, tx DBTX, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var (
		assignedToID sql.NullInt64
		creator      models.UserSummary
		aID          sql.NullInt64
		aName        sql.NullString
		aEmail       sql.NullString
		aRole        sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedByID, &assignedToID,
		&t.CreatedAt, &t.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Email, &creator.Role,
		&aID, &aName, &aEmail, &aRole,
	)
	if err != nil {
		return nil, err
	}
	if assignedToID.Valid {
		t.AssignedToID = &assignedToID.Int64
	}
	t.CreatedBy = &creator
	if aID.Valid {
		t.AssignedTo = &models.UserSummary{
			ID:    aID.Int64,
			Name:  aName.String,
			Email: aEmail.String,
			Role:  models.Role(aRole.String),
		}
	}
	return t, nil
}
