package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/core/domain"
	"taskapp/pkg/tracing"
)

const usersTable = "users"

var userColumns = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	db *sqlite.DB
}

func NewUserRepository(db *sqlite.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"id": id.String()})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int

	err := tracing.DatabaseSpanWrapper(ctx, sqlite.System, usersTable, "exists", func(ctx context.Context) error {
		sql, args, err := ur.db.QueryBuilder.Select("COUNT(*)").
			From(usersTable).
			Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"username": username}}).
			ToSql()

		if err != nil {
			return err
		}

		return ur.db.QueryRowContext(ctx, sql, args...).Scan(&count)
	})

	return count > 0, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := tracing.DatabaseSpanWrapper(ctx, sqlite.System, usersTable, "insert", func(ctx context.Context) error {
		sql, args, err := ur.db.QueryBuilder.Insert(usersTable).
			Columns(userColumns...).
			Values(user.ID.String(), user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
			ToSql()

		if err != nil {
			return err
		}

		_, err = ur.db.ExecContext(ctx, sql, args...)

		return err
	})

	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.User{}, domain.ErrUserAlreadyExists
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) getBy(ctx context.Context, where sq.Eq) (domain.User, error) {
	var (
		user      domain.User
		createdAt sqlite.Time
		updatedAt sqlite.Time
	)

	err := tracing.DatabaseSpanWrapper(ctx, sqlite.System, usersTable, "select_one", func(ctx context.Context) error {
		query, args, err := ur.db.QueryBuilder.Select(userColumns...).
			From(usersTable).
			Where(where).
			Limit(1).
			ToSql()

		if err != nil {
			return err
		}

		return ur.db.QueryRowContext(ctx, query, args...).
			Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return user, nil
}
