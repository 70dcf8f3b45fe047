package services

import (
	"context"
	"strings"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/authz"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

type CreateTaskInput struct {
	Title        string
	Description  string
	AssignedToID *int64
}

// UpdateTaskInput carries only the fields present in the request. AssigneeSet
// distinguishes "assignedToId absent" from "assignedToId: null": the TEAM
// restriction and the history diff both key on presence, not on value.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	AssigneeSet  bool
	AssignedToID *int64
}

// TaskService applies create/update/delete mutations under the authorization
// gate, writing the task change and its paired history entry in one
// transaction. No partial write is ever observable: either both rows commit
// or the caller sees the original error and nothing changed.
type TaskService interface {
	Create(ctx context.Context, actor authz.Identity, in CreateTaskInput) (*models.Task, error)
	GetByID(ctx context.Context, actor authz.Identity, id int64) (*models.Task, error)
	List(ctx context.Context, actor authz.Identity) ([]models.Task, error)
	Update(ctx context.Context, actor authz.Identity, id int64, in UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, actor authz.Identity, id int64) error
}

type taskService struct {
	txm     repositories.TxManager
	tasks   repositories.TaskRepository
	history repositories.HistoryRepository
	users   repositories.UserRepository
}

func NewTaskService(
	txm repositories.TxManager,
	tasks repositories.TaskRepository,
	history repositories.HistoryRepository,
	users repositories.UserRepository,
) TaskService {
	return &taskService{txm: txm, tasks: tasks, history: history, users: users}
}

func (s *taskService) Create(ctx context.Context, actor authz.Identity, in CreateTaskInput) (*models.Task, error) {
	if d := authz.CanCreateTask(actor); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.Validation("title and description are required")
	}
	if in.AssignedToID != nil {
		ok, err := s.users.Exists(ctx, *in.AssignedToID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NotFound("assignee user not found")
		}
	}

	task := &models.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       models.StatusNotStarted,
		CreatedByID:  actor.ID,
		AssignedToID: in.AssignedToID,
	}

	err := s.txm.RunInTx(ctx, func(ctx context.Context, tx repositories.DBTX) error {
		if err := s.tasks.Store(ctx, tx, task); err != nil {
			return err
		}
		entry := &models.TaskHistory{
			TaskID:      task.ID,
			UserID:      actor.ID,
			Action:      models.ActionTaskCreated,
			NewTitle:    &task.Title,
			NewDesc:     &task.Description,
			NewStatus:   &task.Status,
			NewAssignee: task.AssignedToID,
		}
		return s.history.Store(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.tasks.FindByID(ctx, task.ID)
}

func (s *taskService) GetByID(ctx context.Context, actor authz.Identity, id int64) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewTask(actor, task); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor authz.Identity) ([]models.Task, error) {
	var filter models.TaskFilter
	if !actor.IsLead() {
		uid := actor.ID
		filter.AssignedToID = &uid
	}
	return s.tasks.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, actor authz.Identity, id int64, in UpdateTaskInput) (*models.Task, error) {
	current, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.UpdateScope{
		TouchesTitle:    in.Title != nil,
		TouchesAssignee: in.AssigneeSet,
	}
	if d := authz.CanUpdateTask(actor, current, scope); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}
	if in.Status != nil && !models.IsValidTaskStatus(*in.Status) {
		return nil, apperrors.Validation("invalid status value")
	}
	if in.AssigneeSet && in.AssignedToID != nil {
		ok, err := s.users.Exists(ctx, *in.AssignedToID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NotFound("assignee user not found")
		}
	}

	// diff covers exactly the fields present in the payload, changed or not
	entry := &models.TaskHistory{
		TaskID: current.ID,
		UserID: actor.ID,
		Action: models.ActionTaskUpdated,
	}
	update := *current
	if in.Title != nil {
		prev := current.Title
		entry.PreviousTitle, entry.NewTitle = &prev, in.Title
		update.Title = *in.Title
	}
	if in.Description != nil {
		prev := current.Description
		entry.PreviousDesc, entry.NewDesc = &prev, in.Description
		update.Description = *in.Description
	}
	if in.Status != nil {
		prev := current.Status
		entry.PreviousStatus, entry.NewStatus = &prev, in.Status
		update.Status = *in.Status
	}
	if in.AssigneeSet {
		entry.PreviousAssignee, entry.NewAssignee = current.AssignedToID, in.AssignedToID
		update.AssignedToID = in.AssignedToID
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repositories.DBTX) error {
		if err := s.tasks.Update(ctx, tx, &update); err != nil {
			return err
		}
		return s.history.Store(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.tasks.FindByID(ctx, id)
}

// Delete records a TASK_DELETED entry with the task's final state, then purges
// the task's history (that entry included) and the task row itself, in one
// transaction. Deleting a task leaves no surviving audit trail.
func (s *taskService) Delete(ctx context.Context, actor authz.Identity, id int64) error {
	if d := authz.CanDeleteTask(actor); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return s.txm.RunInTx(ctx, func(ctx context.Context, tx repositories.DBTX) error {
		entry := &models.TaskHistory{
			TaskID:           task.ID,
			UserID:           actor.ID,
			Action:           models.ActionTaskDeleted,
			PreviousTitle:    &task.Title,
			PreviousDesc:     &task.Description,
			PreviousStatus:   &task.Status,
			PreviousAssignee: task.AssignedToID,
		}
		if err := s.history.Store(ctx, tx, entry); err != nil {
			return err
		}
		if err := s.history.DeleteByTask(ctx, tx, task.ID); err != nil {
			return err
		}
		return s.tasks.Delete(ctx, tx, task.ID)
	})
}
