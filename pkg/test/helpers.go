package test

import (
	"context"
	"log"
	"testing"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/core/domain"
	"taskapp/pkg/test/factory"
)

// InitTestDB opens a private, migrated in-memory sqlite database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.New(sqlite.Options{Path: ":memory:"})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

func SetupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := InitTestDB()
	t.Cleanup(func() { db.Close() })

	return db
}

// SeedUser stores a factory user so tasks can reference it.
func SeedUser(t *testing.T, db *sqlite.DB, customData ...map[string]any) domain.User {
	t.Helper()

	user, err := repository.NewUserRepository(db).Create(context.Background(), factory.NewUser(customData...))

	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}
