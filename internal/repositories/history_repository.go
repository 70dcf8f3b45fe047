package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskdesk/internal/models"
)

// HistoryRepository is append-only: rows are inserted alongside task writes
// and only ever removed by the bulk purge inside task deletion.
type HistoryRepository interface {
	Store(ctx context.Context, tx DBTX, entry *models.TaskHistory) error
	DeleteByTask(ctx context.Context, tx DBTX, taskID int64) error
	ListByTask(ctx context.Context, taskID int64, limit, offset int) ([]models.TaskHistory, error)
	CountByTask(ctx context.Context, taskID int64) (int, error)
	List(ctx context.Context, filter models.HistoryFilter, limit, offset int) ([]models.TaskHistory, error)
	Count(ctx context.Context, filter models.HistoryFilter) (int, error)
}

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Store(ctx context.Context, tx DBTX, entry *models.TaskHistory) error {
	const q = `
		INSERT INTO task_histories (
			task_id, user_id, action,
			previous_title, new_title, previous_desc, new_desc,
			previous_status, new_status, previous_assignee, new_assignee
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, timestamp`
	return tx.QueryRowContext(ctx, q,
		entry.TaskID, entry.UserID, entry.Action,
		entry.PreviousTitle, entry.NewTitle, entry.PreviousDesc, entry.NewDesc,
		entry.PreviousStatus, entry.NewStatus, entry.PreviousAssignee, entry.NewAssignee,
	).Scan(&entry.ID, &entry.Timestamp)
}

func (r *historyRepository) DeleteByTask(ctx context.Context, tx DBTX, taskID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM task_histories WHERE task_id = $1`, taskID)
	return err
}

const historyColumns = `
	h.id, h.task_id, h.user_id, h.action, h.timestamp,
	h.previous_title, h.new_title, h.previous_desc, h.new_desc,
	h.previous_status, h.new_status, h.previous_assignee, h.new_assignee`

func (r *historyRepository) ListByTask(ctx context.Context, taskID int64, limit, offset int) ([]models.TaskHistory, error) {
	q := `
		SELECT ` + historyColumns + `,
			u.id, u.name, u.email, u.role
		FROM task_histories h
		JOIN users u ON u.id = h.user_id
		WHERE h.task_id = $1
		ORDER BY h.timestamp DESC, h.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, taskID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows, false)
}

func (r *historyRepository) CountByTask(ctx context.Context, taskID int64) (int, error) {
	var c int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_histories WHERE task_id = $1`, taskID,
	).Scan(&c)
	return c, err
}

func historyFilterWhere(filter models.HistoryFilter, args *[]interface{}) string {
	conditions := []string{}
	argID := 1
	if filter.TaskID != nil {
		conditions = append(conditions, fmt.Sprintf("h.task_id = $%d", argID))
		*args = append(*args, *filter.TaskID)
		argID++
	}
	if filter.AssignedToID != nil {
		conditions = append(conditions, fmt.Sprintf("t.assigned_to_id = $%d", argID))
		*args = append(*args, *filter.AssignedToID)
		argID++
	}
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func (r *historyRepository) List(ctx context.Context, filter models.HistoryFilter, limit, offset int) ([]models.TaskHistory, error) {
	args := []interface{}{}
	q := `
		SELECT ` + historyColumns + `,
			u.id, u.name, u.email, u.role,
			t.id, t.title, t.status
		FROM task_histories h
		JOIN users u ON u.id = h.user_id
		JOIN tasks t ON t.id = h.task_id`
	q += historyFilterWhere(filter, &args)
	q += fmt.Sprintf(" ORDER BY h.timestamp DESC, h.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows, true)
}

func (r *historyRepository) Count(ctx context.Context, filter models.HistoryFilter) (int, error) {
	args := []interface{}{}
	q := `
		SELECT COUNT(*)
		FROM task_histories h
		JOIN tasks t ON t.id = h.task_id`
	q += historyFilterWhere(filter, &args)

	var c int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&c)
	return c, err
}

func collectHistory(rows *sql.Rows, withTask bool) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	for rows.Next() {
		var (
			h        models.TaskHistory
			prevT    sql.NullString
			newT     sql.NullString
			prevD    sql.NullString
			newD     sql.NullString
			prevS    sql.NullString
			newS     sql.NullString
			prevA    sql.NullInt64
			newA     sql.NullInt64
			actor    models.UserSummary
			taskSumm models.TaskSummary
		)
		dest := []interface{}{
			&h.ID, &h.TaskID, &h.UserID, &h.Action, &h.Timestamp,
			&prevT, &newT, &prevD, &newD,
			&prevS, &newS, &prevA, &newA,
			&actor.ID, &actor.Name, &actor.Email, &actor.Role,
		}
		if withTask {
			dest = append(dest, &taskSumm.ID, &taskSumm.Title, &taskSumm.Status)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if prevT.Valid {
			h.PreviousTitle = &prevT.String
		}
		if newT.Valid {
			h.NewTitle = &newT.String
		}
		if prevD.Valid {
			h.PreviousDesc = &prevD.String
		}
		if newD.Valid {
			h.NewDesc = &newD.String
		}
		if prevS.Valid {
			s := models.TaskStatus(prevS.String)
			h.PreviousStatus = &s
		}
		if newS.Valid {
			s := models.TaskStatus(newS.String)
			h.NewStatus = &s
		}
		if prevA.Valid {
			h.PreviousAssignee = &prevA.Int64
		}
		if newA.Valid {
			h.NewAssignee = &newA.Int64
		}
		h.User = &actor
		if withTask {
			h.Task = &taskSumm
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
