package services

import (
	"context"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/authz"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

const DefaultHistoryLimit = 20

// HistoryService is read-only, paginated, role-scoped access to the audit
// trail. Pages are 1-based; skip = (page-1)*limit.
type HistoryService interface {
	ListForTask(ctx context.Context, actor authz.Identity, taskID int64, page, limit int) (*models.HistoryPage, error)
	ListGlobal(ctx context.Context, actor authz.Identity, taskID *int64, page, limit int) (*models.HistoryPage, error)
	AllForTask(ctx context.Context, actor authz.Identity, taskID int64) (*models.Task, []models.TaskHistory, error)
}

type historyService struct {
	tasks   repositories.TaskRepository
	history repositories.HistoryRepository
}

func NewHistoryService(tasks repositories.TaskRepository, history repositories.HistoryRepository) HistoryService {
	return &historyService{tasks: tasks, history: history}
}

func checkPaging(page, limit int) error {
	if page < 1 {
		return apperrors.Validation("page must be positive")
	}
	if limit < 1 {
		return apperrors.ErrInvalidLimit
	}
	return nil
}

func buildPage(items []models.TaskHistory, total, page, limit int) *models.HistoryPage {
	if items == nil {
		items = []models.TaskHistory{}
	}
	return &models.HistoryPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		HasMore:    page*limit < total,
	}
}

func (s *historyService) ListForTask(ctx context.Context, actor authz.Identity, taskID int64, page, limit int) (*models.HistoryPage, error) {
	if err := checkPaging(page, limit); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewTaskHistory(actor, task); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	total, err := s.history.CountByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	items, err := s.history.ListByTask(ctx, taskID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return buildPage(items, total, page, limit), nil
}

func (s *historyService) ListGlobal(ctx context.Context, actor authz.Identity, taskID *int64, page, limit int) (*models.HistoryPage, error) {
	if err := checkPaging(page, limit); err != nil {
		return nil, err
	}

	filter := models.HistoryFilter{TaskID: taskID}
	if !actor.IsLead() {
		// TEAM callers only ever see history of their own assigned tasks,
		// taskId filter or not
		uid := actor.ID
		filter.AssignedToID = &uid
	}

	total, err := s.history.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.history.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return buildPage(items, total, page, limit), nil
}

// AllForTask returns the task and its complete history, newest first. Used by
// the PDF export.
func (s *historyService) AllForTask(ctx context.Context, actor authz.Identity, taskID int64) (*models.Task, []models.TaskHistory, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if d := authz.CanViewTaskHistory(actor, task); !d.Allowed {
		return nil, nil, apperrors.Forbidden(d.Reason)
	}
	total, err := s.history.CountByTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if total == 0 {
		return task, nil, nil
	}
	items, err := s.history.ListByTask(ctx, taskID, total, 0)
	if err != nil {
		return nil, nil, err
	}
	return task, items, nil
}
