package port

import (
	"context"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type TokenIssuer interface {
	CreateToken(userID uuid.UUID) (string, error)
}

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}
