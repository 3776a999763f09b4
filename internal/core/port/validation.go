package port

import (
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

// Validator checks raw request bodies. An empty error slice means the returned
// request is normalized and safe to use.
type Validator interface {
	ValidateTask(body map[string]any, mode request.TaskMode) (request.TaskRequest, []response.FieldError)
	ValidateSignUp(body map[string]any) (request.SignUpRequest, []response.FieldError)
	ValidateLogin(body map[string]any) (request.LoginRequest, []response.FieldError)
}
