package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

// TaskRepository is the task store. Every method that addresses a single task
// takes the owner as well, and reports domain.ErrTaskNotFound when no task
// matches both. Writes take their timestamps from the caller.
type TaskRepository interface {
	Find(ctx context.Context, query domain.TaskQuery) ([]domain.Task, error)
	Count(ctx context.Context, filter domain.TaskFilter) (int64, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	FindByID(ctx context.Context, owner, id uuid.UUID) (domain.Task, error)
	Replace(ctx context.Context, task domain.Task) (domain.Task, error)
	ToggleCompleted(ctx context.Context, owner, id uuid.UUID, now time.Time) (domain.Task, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (domain.Task, error)
}

type TaskService interface {
	Create(ctx context.Context, owner uuid.UUID, req request.TaskRequest) (domain.Task, error)
	List(ctx context.Context, owner uuid.UUID, query request.ListTasksQuery) (*response.TaskListData, error)
	GetByID(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error)
	Update(ctx context.Context, owner uuid.UUID, id string, req request.TaskRequest) (domain.Task, error)
	Delete(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error)
	Toggle(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error)
}
