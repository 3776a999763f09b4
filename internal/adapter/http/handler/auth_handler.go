package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/pkg/logger"
	"taskapp/pkg/telemetry"
	. "taskapp/pkg/tracing"
)

type AuthHandler struct {
	svc       port.AuthService
	tokens    port.TokenIssuer
	validator port.Validator
	logger    *logger.Logger
	metrics   *telemetry.AppMetrics
}

func NewAuthHandler(svc port.AuthService, tokens port.TokenIssuer, validator port.Validator, logger *logger.Logger, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		metrics:   metrics,
	}
}

func (a *AuthHandler) SignUp(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.SignUp", []attribute.KeyValue{
		attribute.String("handler.operation", "SignUp"),
	})
	defer span.End()

	body, ok := bindBody(c)

	if !ok {
		return
	}

	req, errs := a.validator.ValidateSignUp(body)

	if len(errs) > 0 {
		a.record(c, "signup", "invalid")
		SendValidationError(c, errs)
		return
	}

	user, err := a.svc.Registration(ctx, &req)

	if errors.Is(err, domain.ErrUserAlreadyExists) {
		a.record(c, "signup", "conflict")
		SendError(c, http.StatusConflict, "User with this email or username already exists")
		return
	}

	if err != nil {
		AddSpanError(span, err)
		a.record(c, "signup", "error")
		a.logger.ErrorWithTrace(ctx, "Error registering user", zap.Error(err))
		SendInternalError(c, "Error registering user", err)
		return
	}

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		AddSpanError(span, err)
		a.logger.ErrorWithTrace(ctx, "Error generating access token", zap.Error(err))
		SendInternalError(c, "Error generating access token", err)
		return
	}

	a.record(c, "signup", "success")

	SendSuccess(c, http.StatusCreated, "User registered successfully", response.AuthData{
		User:  response.NewUserResponse(*user),
		Token: token,
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.Login", []attribute.KeyValue{
		attribute.String("handler.operation", "Login"),
	})
	defer span.End()

	body, ok := bindBody(c)

	if !ok {
		return
	}

	req, errs := a.validator.ValidateLogin(body)

	if len(errs) > 0 {
		a.record(c, "login", "invalid")
		SendValidationError(c, errs)
		return
	}

	user, err := a.svc.Authenticate(ctx, &req)

	if errors.Is(err, domain.ErrInvalidCredentials) {
		a.record(c, "login", "unauthorized")
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	if err != nil {
		AddSpanError(span, err)
		a.record(c, "login", "error")
		a.logger.ErrorWithTrace(ctx, "Error logging in", zap.Error(err))
		SendInternalError(c, "Error logging in", err)
		return
	}

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		AddSpanError(span, err)
		a.logger.ErrorWithTrace(ctx, "Error generating access token", zap.Error(err))
		SendInternalError(c, "Error generating access token", err)
		return
	}

	a.record(c, "login", "success")

	SendSuccess(c, http.StatusOK, "Login successful", response.AuthData{
		User:  response.NewUserResponse(*user),
		Token: token,
	})
}

func (a *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := middleware.UserID(c)

	if !ok {
		SendUnauthorizedError(c, "Access token required")
		return
	}

	user, err := a.svc.CurrentUser(ctx, userID)

	if errors.Is(err, domain.ErrUserNotFound) {
		SendUnauthorizedError(c, "User no longer exists")
		return
	}

	if err != nil {
		a.logger.ErrorWithTrace(ctx, "Error fetching user", zap.Error(err))
		SendInternalError(c, "Error fetching user", err)
		return
	}

	SendSuccess(c, http.StatusOK, "User retrieved successfully", response.AuthData{
		User: response.NewUserResponse(*user),
	})
}

func (a *AuthHandler) record(c *gin.Context, operation, outcome string) {
	if a.metrics != nil {
		a.metrics.RecordUserOperation(c.Request.Context(), operation, outcome)
	}
}
