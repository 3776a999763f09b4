package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/pkg/tracing"
)

const (
	usersTable     = "users"
	uniqueViolated = "23505"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	db *postgres.DB
}

func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, usersTable, "exists", func(ctx context.Context) error {
		sql, args, err := ur.db.QueryBuilder.Select("1").
			From(usersTable).
			Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"username": username}}).
			Prefix("SELECT EXISTS (").
			Suffix(")").
			ToSql()

		if err != nil {
			return err
		}

		return ur.db.QueryRow(ctx, sql, args...).Scan(&exists)
	})

	return exists, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, usersTable, "insert", func(ctx context.Context) error {
		sql, args, err := ur.db.QueryBuilder.Insert(usersTable).
			Columns(userColumns...).
			Values(user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
			ToSql()

		if err != nil {
			return err
		}

		_, err = ur.db.Exec(ctx, sql, args...)

		return err
	})

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolated {
		return domain.User{}, domain.ErrUserAlreadyExists
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) getBy(ctx context.Context, where sq.Eq) (domain.User, error) {
	var user domain.User

	err := tracing.DatabaseSpanWrapper(ctx, postgres.System, usersTable, "select_one", func(ctx context.Context) error {
		sql, args, err := ur.db.QueryBuilder.Select(userColumns...).
			From(usersTable).
			Where(where).
			Limit(1).
			ToSql()

		if err != nil {
			return err
		}

		return ur.db.QueryRow(ctx, sql, args...).
			Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
