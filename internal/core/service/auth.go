package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	email := domain.NormalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	exists, err := as.repo.ExistsByEmailOrUsername(ctx, email, username)

	if err != nil {
		return nil, storeError("user exists", err)
	}

	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := util.HashPassword(req.Password)

	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := as.repo.Create(ctx, domain.NewUser(username, email, hashed, time.Now().UTC()))

	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}

		return nil, storeError("create user", err)
	}

	return &user, nil
}

// Authenticate reports ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := as.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))

	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}

	if err != nil {
		return nil, storeError("user by email", err)
	}

	if err := util.ComparePassword(req.Password, user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}

func (as *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := as.repo.GetByID(ctx, id)

	if err != nil {
		return nil, storeError("user by id", err)
	}

	return &user, nil
}
