package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
)

type TaskService struct {
	repo port.TaskRepository
	now  func() time.Time
}

type TaskServiceOption func(*TaskService)

// WithClock replaces time.Now as the source of created and updated timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(ts *TaskService) {
		ts.now = now
	}
}

func NewTaskService(repo port.TaskRepository, opts ...TaskServiceOption) *TaskService {
	ts := &TaskService{repo: repo, now: time.Now}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

func (ts *TaskService) Create(ctx context.Context, owner uuid.UUID, req request.TaskRequest) (domain.Task, error) {
	task := domain.NewTask(owner, req.Title, req.CompletedOrDefault(), ts.now().UTC())

	created, err := ts.repo.Create(ctx, task)

	if err != nil {
		return domain.Task{}, storeError("create", err)
	}

	return created, nil
}

func (ts *TaskService) List(ctx context.Context, owner uuid.UUID, query request.ListTasksQuery) (*response.TaskListData, error) {
	filter := domain.TaskFilter{Owner: owner, Completed: query.Completed}

	var (
		tasks []domain.Task
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		tasks, err = ts.repo.Find(gctx, domain.TaskQuery{
			TaskFilter: filter,
			SortBy:     query.SortBy,
			Descending: query.Descending(),
			Offset:     query.Offset(),
			Limit:      query.Limit,
		})

		return err
	})

	g.Go(func() error {
		var err error
		total, err = ts.repo.Count(gctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeError("list", err)
	}

	data := make([]response.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		data = append(data, response.NewTaskResponse(task))
	}

	return &response.TaskListData{
		Tasks:      data,
		Pagination: NewPagination(total, query.Page, query.Limit),
	}, nil
}

func (ts *TaskService) GetByID(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error) {
	taskID, err := domain.ParseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := ts.repo.FindByID(ctx, owner, taskID)

	if err != nil {
		return domain.Task{}, storeError("find", err)
	}

	return task, nil
}

// Update replaces title and completed on an owned task. Applying the same
// request twice leaves the same title and completed values.
func (ts *TaskService) Update(ctx context.Context, owner uuid.UUID, id string, req request.TaskRequest) (domain.Task, error) {
	taskID, err := domain.ParseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := ts.repo.Replace(ctx, domain.Task{
		ID:        taskID,
		Owner:     owner,
		Title:     req.Title,
		Completed: req.CompletedOrDefault(),
		UpdatedAt: ts.now().UTC(),
	})

	if err != nil {
		return domain.Task{}, storeError("replace", err)
	}

	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error) {
	taskID, err := domain.ParseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := ts.repo.Delete(ctx, owner, taskID)

	if err != nil {
		return domain.Task{}, storeError("delete", err)
	}

	return task, nil
}

func (ts *TaskService) Toggle(ctx context.Context, owner uuid.UUID, id string) (domain.Task, error) {
	taskID, err := domain.ParseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := ts.repo.ToggleCompleted(ctx, owner, taskID, ts.now().UTC())

	if err != nil {
		return domain.Task{}, storeError("toggle", err)
	}

	return task, nil
}

func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if domain.IsStoreError(err) {
		return err
	}

	return domain.NewStoreError(op, err)
}
