package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid access token")

type JWT struct {
	Secret string
	Expiry time.Duration
}

func NewJWT(secret string, expiry time.Duration) *JWT {
	return &JWT{Secret: secret, Expiry: expiry}
}

func (j *JWT) CreateToken(userID uuid.UUID) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(j.Expiry).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

// VerifyToken checks signature and expiry and returns the user the token was
// issued for.
func (j *JWT) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	raw, ok := claims["user_id"].(string)

	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	userID, err := uuid.Parse(raw)

	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id", ErrInvalidToken)
	}

	return userID, nil
}
