package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

// TaskRepository keeps tasks in process memory. It backs tests and the
// "memory" driver.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[uuid.UUID]domain.Task)}
}

func (r *TaskRepository) Find(ctx context.Context, query domain.TaskQuery) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := r.filter(query.TaskFilter)
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		c := compareTasks(matched[i], matched[j], query.SortBy)

		if c == 0 {
			c = strings.Compare(matched[i].ID.String(), matched[j].ID.String())
		}

		if query.Descending {
			return c > 0
		}

		return c < 0
	})

	if query.Offset < 0 || query.Offset >= len(matched) {
		return []domain.Task{}, nil
	}

	end := len(matched)

	if query.Limit > 0 && query.Offset+query.Limit < end {
		end = query.Offset + query.Limit
	}

	return matched[query.Offset:end], nil
}

func (r *TaskRepository) Count(ctx context.Context, filter domain.TaskFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.filter(filter))), nil
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.owned(owner, id)
}

func (r *TaskRepository) Replace(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.owned(task.Owner, task.ID)

	if err != nil {
		return domain.Task{}, err
	}

	current.Title = task.Title
	current.Completed = task.Completed
	current.UpdatedAt = task.UpdatedAt
	r.tasks[current.ID] = current

	return current, nil
}

func (r *TaskRepository) ToggleCompleted(ctx context.Context, owner, id uuid.UUID, now time.Time) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, err := r.owned(owner, id)

	if err != nil {
		return domain.Task{}, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = now
	r.tasks[task.ID] = task

	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, owner, id uuid.UUID) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, err := r.owned(owner, id)

	if err != nil {
		return domain.Task{}, err
	}

	delete(r.tasks, id)

	return task, nil
}

// owned must be called with the lock held.
func (r *TaskRepository) owned(owner, id uuid.UUID) (domain.Task, error) {
	task, ok := r.tasks[id]

	if !ok || !task.BelongsTo(owner) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return task, nil
}

func (r *TaskRepository) filter(filter domain.TaskFilter) []domain.Task {
	matched := make([]domain.Task, 0)

	for _, task := range r.tasks {
		if !task.BelongsTo(filter.Owner) {
			continue
		}

		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}

		matched = append(matched, task)
	}

	return matched
}

func compareTasks(a, b domain.Task, field domain.TaskSortField) int {
	switch field {
	case domain.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case domain.SortByCompleted:
		return compareBool(a.Completed, b.Completed)
	case domain.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
