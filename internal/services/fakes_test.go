package services

import (
	"context"
	"sort"
	"time"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

// fakeTxManager snapshots the in-memory repos before running fn and restores
// them when fn fails, so tests can observe that no partial write survives.
type fakeTxManager struct {
	tasks   *fakeTaskRepo
	history *fakeHistoryRepo

	calls      int
	rolledBack bool
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn repositories.TxFunc) error {
	m.calls++
	taskSnap := m.tasks.snapshot()
	histSnap := m.history.snapshot()
	if err := fn(ctx, nil); err != nil {
		m.tasks.restore(taskSnap)
		m.history.restore(histSnap)
		m.rolledBack = true
		return err
	}
	return nil
}

type fakeTaskRepo struct {
	tasks  map[int64]models.Task
	nextID int64

	updateErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]models.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) snapshot() map[int64]models.Task {
	snap := make(map[int64]models.Task, len(r.tasks))
	for id, t := range r.tasks {
		snap[id] = t
	}
	return snap
}

func (r *fakeTaskRepo) restore(snap map[int64]models.Task) {
	r.tasks = snap
}

func (r *fakeTaskRepo) Store(ctx context.Context, tx repositories.DBTX, task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	cp := t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.AssignedToID != nil {
			if t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, tx repositories.DBTX, task *models.Task) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return apperrors.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, tx repositories.DBTX, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return apperrors.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeHistoryRepo struct {
	entries []models.TaskHistory
	nextID  int64

	// resolves task assignment for the global feed filter
	tasks *fakeTaskRepo

	storeErr error
}

func newFakeHistoryRepo(tasks *fakeTaskRepo) *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1, tasks: tasks}
}

func (r *fakeHistoryRepo) snapshot() []models.TaskHistory {
	return append([]models.TaskHistory(nil), r.entries...)
}

func (r *fakeHistoryRepo) restore(snap []models.TaskHistory) {
	r.entries = snap
}

func (r *fakeHistoryRepo) Store(ctx context.Context, tx repositories.DBTX, entry *models.TaskHistory) error {
	if r.storeErr != nil {
		return r.storeErr
	}
	entry.ID = r.nextID
	r.nextID++
	entry.Timestamp = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) DeleteByTask(ctx context.Context, tx repositories.DBTX, taskID int64) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.TaskID != taskID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *fakeHistoryRepo) matching(filter models.HistoryFilter) []models.TaskHistory {
	var out []models.TaskHistory
	for _, e := range r.entries {
		if filter.TaskID != nil && e.TaskID != *filter.TaskID {
			continue
		}
		if filter.AssignedToID != nil {
			t, ok := r.tasks.tasks[e.TaskID]
			if !ok || t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		out = append(out, e)
	}
	// newest first, id as tiebreak, like the SQL ordering
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func slicePage(entries []models.TaskHistory, limit, offset int) []models.TaskHistory {
	if offset >= len(entries) {
		return nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

func (r *fakeHistoryRepo) ListByTask(ctx context.Context, taskID int64, limit, offset int) ([]models.TaskHistory, error) {
	return slicePage(r.matching(models.HistoryFilter{TaskID: &taskID}), limit, offset), nil
}

func (r *fakeHistoryRepo) CountByTask(ctx context.Context, taskID int64) (int, error) {
	return len(r.matching(models.HistoryFilter{TaskID: &taskID})), nil
}

func (r *fakeHistoryRepo) List(ctx context.Context, filter models.HistoryFilter, limit, offset int) ([]models.TaskHistory, error) {
	return slicePage(r.matching(filter), limit, offset), nil
}

func (r *fakeHistoryRepo) Count(ctx context.Context, filter models.HistoryFilter) (int, error) {
	return len(r.matching(filter)), nil
}

type fakeUserRepo struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]models.User{}, nextID: 1}
	for _, u := range users {
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.Validation("email already registered")
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, u := range r.users {
		out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) GetTelegramChatID(ctx context.Context, userID int64) (*int64, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u.TelegramChatID, nil
}
