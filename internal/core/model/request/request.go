package request

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"taskapp/internal/core/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside a 32-bit int for every allowed limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

type TaskMode int

const (
	// TaskCreate accepts an optional completed flag.
	TaskCreate TaskMode = iota
	// TaskReplace is a full update: title and completed are both required.
	TaskReplace
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100,containsany=0123456789"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TaskRequest struct {
	Title     string `json:"title"`
	Completed *bool  `json:"completed"`
}

func (r TaskRequest) CompletedOrDefault() bool {
	if r.Completed == nil {
		return false
	}

	return *r.Completed
}

type ListTasksQuery struct {
	Page      int
	Limit     int
	Completed *bool
	SortBy    domain.TaskSortField
	SortOrder string
}

// NewListTasksQuery normalizes raw query string values. Missing, non-numeric or
// non-positive page/limit fall back to defaults. limit is capped at MaxLimit and
// page at MaxPage.
func NewListTasksQuery(page, limit, completed, sortBy, sortOrder string) ListTasksQuery {
	query := ListTasksQuery{
		Page:      positiveOr(page, DefaultPage),
		Limit:     positiveOr(limit, DefaultLimit),
		SortBy:    domain.SortByCreatedAt,
		SortOrder: "desc",
	}

	if query.Limit > MaxLimit {
		query.Limit = MaxLimit
	}

	if query.Page > MaxPage {
		query.Page = MaxPage
	}

	switch strings.ToLower(strings.TrimSpace(completed)) {
	case "true":
		value := true
		query.Completed = &value
	case "false":
		value := false
		query.Completed = &value
	}

	if field := domain.TaskSortField(strings.TrimSpace(sortBy)); field.Valid() {
		query.SortBy = field
	}

	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		query.SortOrder = "asc"
	}

	return query
}

func (q ListTasksQuery) Descending() bool {
	return q.SortOrder != "asc"
}

func (q ListTasksQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func positiveOr(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))

	// Out of range positive numbers come back as the largest int.
	if errors.Is(err, strconv.ErrRange) && value > 0 {
		return value
	}

	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
