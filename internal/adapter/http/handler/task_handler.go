package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
	"taskapp/pkg/logger"
	"taskapp/pkg/telemetry"
	. "taskapp/pkg/tracing"
)

type TaskHandler struct {
	svc       port.TaskService
	validator port.Validator
	logger    *logger.Logger
	metrics   *telemetry.AppMetrics
}

func NewTaskHandler(svc port.TaskService, validator port.Validator, logger *logger.Logger, metrics *telemetry.AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:       svc,
		validator: validator,
		logger:    logger,
		metrics:   metrics,
	}
}

func (t *TaskHandler) Create(c *gin.Context) {
	ctx, span := t.span(c, "Create")
	defer span.End()

	owner, ok := currentOwner(c, span, "create")

	if !ok {
		return
	}

	req, ok := t.bindTask(c, request.TaskCreate)

	if !ok {
		t.record(ctx, "create", "invalid")
		return
	}

	task, err := t.svc.Create(ctx, owner, req)

	if err != nil {
		t.fail(c, span, "create", owner, err, "Error creating task")
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID.String()))
	t.record(ctx, "create", "success")

	SendSuccess(c, http.StatusCreated, "Task created successfully", response.TaskData{Task: response.NewTaskResponse(task)})
}

func (t *TaskHandler) List(c *gin.Context) {
	ctx, span := t.span(c, "List")
	defer span.End()

	owner, ok := currentOwner(c, span, "list")

	if !ok {
		return
	}

	query := request.NewListTasksQuery(
		c.Query("page"),
		c.Query("limit"),
		c.Query("completed"),
		c.Query("sortBy"),
		c.Query("sortOrder"),
	)

	span.SetAttributes(
		attribute.Int("task.page", query.Page),
		attribute.Int("task.limit", query.Limit),
		attribute.String("task.sort_by", string(query.SortBy)),
		attribute.String("task.sort_order", query.SortOrder),
	)

	data, err := t.svc.List(ctx, owner, query)

	if err != nil {
		t.fail(c, span, "list", owner, err, "Error fetching tasks")
		return
	}

	t.record(ctx, "list", "success")

	SendSuccess(c, http.StatusOK, "Tasks retrieved successfully", data)
}

func (t *TaskHandler) Get(c *gin.Context) {
	ctx, span := t.span(c, "Get")
	defer span.End()

	owner, ok := currentOwner(c, span, "get")

	if !ok {
		return
	}

	task, err := t.svc.GetByID(ctx, owner, c.Param("id"))

	if err != nil {
		t.fail(c, span, "get", owner, err, "Error fetching task")
		return
	}

	t.record(ctx, "get", "success")

	SendSuccess(c, http.StatusOK, "Task retrieved successfully", response.TaskData{Task: response.NewTaskResponse(task)})
}

func (t *TaskHandler) Update(c *gin.Context) {
	ctx, span := t.span(c, "Update")
	defer span.End()

	owner, ok := currentOwner(c, span, "update")

	if !ok {
		return
	}

	if _, err := domain.ParseTaskID(c.Param("id")); err != nil {
		t.fail(c, span, "update", owner, err, "Error updating task")
		return
	}

	req, ok := t.bindTask(c, request.TaskReplace)

	if !ok {
		t.record(ctx, "update", "invalid")
		return
	}

	task, err := t.svc.Update(ctx, owner, c.Param("id"), req)

	if err != nil {
		t.fail(c, span, "update", owner, err, "Error updating task")
		return
	}

	t.record(ctx, "update", "success")

	SendSuccess(c, http.StatusOK, "Task updated successfully", response.TaskData{Task: response.NewTaskResponse(task)})
}

func (t *TaskHandler) Delete(c *gin.Context) {
	ctx, span := t.span(c, "Delete")
	defer span.End()

	owner, ok := currentOwner(c, span, "delete")

	if !ok {
		return
	}

	task, err := t.svc.Delete(ctx, owner, c.Param("id"))

	if err != nil {
		t.fail(c, span, "delete", owner, err, "Error deleting task")
		return
	}

	t.record(ctx, "delete", "success")

	SendSuccess(c, http.StatusOK, "Task deleted successfully", response.TaskData{Task: response.NewTaskResponse(task)})
}

func (t *TaskHandler) Toggle(c *gin.Context) {
	ctx, span := t.span(c, "Toggle")
	defer span.End()

	owner, ok := currentOwner(c, span, "toggle")

	if !ok {
		return
	}

	task, err := t.svc.Toggle(ctx, owner, c.Param("id"))

	if err != nil {
		t.fail(c, span, "toggle", owner, err, "Error toggling task")
		return
	}

	span.SetAttributes(attribute.Bool("task.completed", task.Completed))
	t.record(ctx, "toggle", "success")

	SendSuccess(c, http.StatusOK, "Task marked as "+task.Status(), response.TaskData{Task: response.NewTaskResponse(task)})
}

func (t *TaskHandler) span(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.task."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

// bindTask writes the 400 response itself when the body is rejected.
func (t *TaskHandler) bindTask(c *gin.Context, mode request.TaskMode) (request.TaskRequest, bool) {
	body, ok := bindBody(c)

	if !ok {
		return request.TaskRequest{}, false
	}

	req, errs := t.validator.ValidateTask(body, mode)

	if len(errs) > 0 {
		SendValidationError(c, errs)
		return req, false
	}

	return req, true
}

func (t *TaskHandler) fail(c *gin.Context, span trace.Span, operation string, owner uuid.UUID, err error, message string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrInvalidTaskID):
		t.record(ctx, operation, "invalid")
		SendBadRequestError(c, "Invalid task ID")
	case errors.Is(err, domain.ErrTaskNotFound):
		t.record(ctx, operation, "not_found")
		t.logger.InfoWithTrace(ctx, "Task not found",
			zap.String("operation", operation),
			zap.String("owner", owner.String()),
			zap.String("task_id", c.Param("id")),
		)
		SendNotFoundError(c, "Task not found")
	default:
		AddSpanError(span, err)
		t.record(ctx, operation, "error")
		t.logger.ErrorWithTrace(ctx, message,
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("owner", owner.String()),
		)
		SendInternalError(c, message, err)
	}
}

func (t *TaskHandler) record(ctx context.Context, operation, outcome string) {
	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, operation, outcome)
	}
}

// currentOwner reads the caller set by the auth middleware and answers 401
// when there is none.
func currentOwner(c *gin.Context, span trace.Span, operation string) (uuid.UUID, bool) {
	owner, ok := middleware.UserID(c)

	if !ok {
		SendUnauthorizedError(c, "Access token required")
		return uuid.Nil, false
	}

	AddOwnerAttributes(span, owner, operation)

	return owner, true
}

func bindBody(c *gin.Context) (map[string]any, bool) {
	body, err := util.BodyToMap(c)

	if err != nil {
		SendValidationError(c, []response.FieldError{{
			Field:   "body",
			Message: "Request body must be a JSON object",
		}})

		return nil, false
	}

	return body, true
}
