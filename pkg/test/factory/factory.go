package factory

import (
	"fmt"
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskapp/internal/core/domain"
)

const DefaultPassword = "password123"

func NewUser(customData ...map[string]any) domain.User {
	id := uuid.New()
	now := time.Now().UTC()
	short := id.String()[:8]

	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

	defaults := map[string]any{
		"ID":           id,
		"Username":     "user_" + short,
		"Email":        fmt.Sprintf("user_%s@example.com", short),
		"PasswordHash": string(hashed),
		"CreatedAt":    now,
		"UpdatedAt":    now,
	}

	return fab.New(domain.User{}).Build(append([]map[string]any{defaults}, customData...)...)
}

func NewTask(owner uuid.UUID, customData ...map[string]any) domain.Task {
	id := uuid.New()
	now := time.Now().UTC()

	defaults := map[string]any{
		"ID":        id,
		"Title":     "Task " + id.String()[:8],
		"Completed": false,
		"Owner":     owner,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	return fab.New(domain.Task{}).Build(append([]map[string]any{defaults}, customData...)...)
}
