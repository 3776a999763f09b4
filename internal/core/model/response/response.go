package response

import (
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

// Envelope is the body shape of every response the API writes.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Owner     uuid.UUID `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		Owner:     task.Owner,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

type TaskData struct {
	Task TaskResponse `json:"task"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalTasks  int64 `json:"totalTasks"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type TaskListData struct {
	Tasks      []TaskResponse `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type AuthData struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}

type Uptime struct {
	Seconds int64 `json:"seconds"`
	Minutes int64 `json:"minutes"`
	Hours   int64 `json:"hours"`
}

type DatabaseHealth struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Ping   string `json:"ping,omitempty"`
}

type MemoryUsage struct {
	Alloc     string `json:"alloc"`
	Sys       string `json:"sys"`
	HeapAlloc string `json:"heapAlloc"`
	HeapSys   string `json:"heapSys"`
}

type HealthData struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Uptime      Uptime         `json:"uptime"`
	Database    DatabaseHealth `json:"database"`
	Memory      MemoryUsage    `json:"memory"`
	Environment string         `json:"environment"`
	Version     string         `json:"version"`
}

type SystemInfo struct {
	Platform    string `json:"platform"`
	Arch        string `json:"arch"`
	GoVersion   string `json:"goVersion"`
	Environment string `json:"environment"`
}

type DetailedHealthData struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Database  DatabaseHealth `json:"database"`
	System    SystemInfo     `json:"system"`
}
