package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	TaskTitleMinLength = 3
	TaskTitleMaxLength = 200
)

type Task struct {
	ID        uuid.UUID
	Title     string
	Completed bool
	Owner     uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTask(owner uuid.UUID, title string, completed bool, now time.Time) Task {
	return Task{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Completed: completed,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Task) BelongsTo(owner uuid.UUID) bool {
	return t.Owner == owner
}

// Status is the word used in toggle messages.
func (t *Task) Status() string {
	if t.Completed {
		return "completed"
	}

	return "pending"
}

func ValidTaskTitle(title string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	return n >= TaskTitleMinLength && n <= TaskTitleMaxLength
}

// ParseTaskID turns a path parameter into a task id, reporting ErrInvalidTaskID
// for anything that is not a UUID.
func ParseTaskID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))

	if err != nil {
		return uuid.Nil, ErrInvalidTaskID
	}

	return id, nil
}
