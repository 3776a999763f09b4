package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/pkg/tracing"
)

const (
	tasksTable = "tasks"
	returning  = "RETURNING id, title, completed, owner_id, created_at, updated_at"
)

var taskColumns = []string{"id", "title", "completed", "owner_id", "created_at", "updated_at"}

var sortColumns = map[domain.TaskSortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
	domain.SortByTitle:     "title",
	domain.SortByCompleted: "completed",
}

type TaskRepository struct {
	db *postgres.DB
}

func NewTaskRepository(db *postgres.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (tr *TaskRepository) Find(ctx context.Context, query domain.TaskQuery) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, query.Limit)

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "select", func(ctx context.Context) error {
		column, ok := sortColumns[query.SortBy]

		if !ok {
			column = sortColumns[domain.SortByCreatedAt]
		}

		direction := "ASC"

		if query.Descending {
			direction = "DESC"
		}

		sql, args, err := tr.db.QueryBuilder.Select(taskColumns...).
			From(tasksTable).
			Where(filterClause(query.TaskFilter)).
			OrderBy(fmt.Sprintf("%s %s", column, direction), fmt.Sprintf("id %s", direction)).
			Limit(uint64(query.Limit)).
			Offset(uint64(query.Offset)).
			ToSql()

		if err != nil {
			return err
		}

		rows, err := tr.db.Query(ctx, sql, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			task, err := scanTask(rows)

			if err != nil {
				return err
			}

			tasks = append(tasks, task)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (tr *TaskRepository) Count(ctx context.Context, filter domain.TaskFilter) (int64, error) {
	var total int64

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "count", func(ctx context.Context) error {
		sql, args, err := tr.db.QueryBuilder.Select("COUNT(*)").
			From(tasksTable).
			Where(filterClause(filter)).
			ToSql()

		if err != nil {
			return err
		}

		return tr.db.QueryRow(ctx, sql, args...).Scan(&total)
	})

	return total, err
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	var created domain.Task

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "insert", func(ctx context.Context) error {
		var err error

		created, err = tr.queryRow(ctx, tr.db.QueryBuilder.Insert(tasksTable).
			Columns(taskColumns...).
			Values(task.ID, task.Title, task.Completed, task.Owner, task.CreatedAt, task.UpdatedAt).
			Suffix(returning))

		return err
	})

	return created, err
}

func (tr *TaskRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (domain.Task, error) {
	var task domain.Task

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "select_one", func(ctx context.Context) error {
		var err error

		task, err = tr.queryRow(ctx, tr.db.QueryBuilder.Select(taskColumns...).
			From(tasksTable).
			Where(ownedBy(owner, id)).
			Limit(1))

		return err
	})

	return task, err
}

func (tr *TaskRepository) Replace(ctx context.Context, task domain.Task) (domain.Task, error) {
	var updated domain.Task

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "update", func(ctx context.Context) error {
		var err error

		updated, err = tr.queryRow(ctx, tr.db.QueryBuilder.Update(tasksTable).
			Set("title", task.Title).
			Set("completed", task.Completed).
			Set("updated_at", task.UpdatedAt).
			Where(ownedBy(task.Owner, task.ID)).
			Suffix(returning))

		return err
	})

	return updated, err
}

func (tr *TaskRepository) ToggleCompleted(ctx context.Context, owner, id uuid.UUID, now time.Time) (domain.Task, error) {
	var toggled domain.Task

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "toggle", func(ctx context.Context) error {
		var err error

		toggled, err = tr.queryRow(ctx, tr.db.QueryBuilder.Update(tasksTable).
			Set("completed", sq.Expr("NOT completed")).
			Set("updated_at", now).
			Where(ownedBy(owner, id)).
			Suffix(returning))

		return err
	})

	return toggled, err
}

func (tr *TaskRepository) Delete(ctx context.Context, owner, id uuid.UUID) (domain.Task, error) {
	var deleted domain.Task

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, tasksTable, "delete", func(ctx context.Context) error {
		var err error

		deleted, err = tr.queryRow(ctx, tr.db.QueryBuilder.Delete(tasksTable).
			Where(ownedBy(owner, id)).
			Suffix(returning))

		return err
	})

	return deleted, err
}

func (tr *TaskRepository) queryRow(ctx context.Context, stmt sq.Sqlizer) (domain.Task, error) {
	sql, args, err := stmt.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, sql, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return task, err
}

func filterClause(filter domain.TaskFilter) sq.Eq {
	clause := sq.Eq{"owner_id": filter.Owner}

	if filter.Completed != nil {
		clause["completed"] = *filter.Completed
	}

	return clause
}

func ownedBy(owner, id uuid.UUID) sq.Eq {
	return sq.Eq{"id": id, "owner_id": owner}
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task

	err := row.Scan(&task.ID, &task.Title, &task.Completed, &task.Owner, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return domain.Task{}, err
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return task, nil
}
