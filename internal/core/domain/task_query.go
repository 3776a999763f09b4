package domain

import "github.com/google/uuid"

type TaskSortField string

const (
	SortByCreatedAt TaskSortField = "createdAt"
	SortByUpdatedAt TaskSortField = "updatedAt"
	SortByTitle     TaskSortField = "title"
	SortByCompleted TaskSortField = "completed"
)

func (f TaskSortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle, SortByCompleted:
		return true
	default:
		return false
	}
}

// TaskFilter always carries the owner. A nil Completed means no completion filter.
type TaskFilter struct {
	Owner     uuid.UUID
	Completed *bool
}

type TaskQuery struct {
	TaskFilter
	SortBy     TaskSortField
	Descending bool
	Offset     int
	Limit      int
}
