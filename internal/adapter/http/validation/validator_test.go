package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

func fields(errs []response.FieldError) []string {
	names := make([]string, 0, len(errs))

	for _, e := range errs {
		names = append(names, e.Field)
	}

	return names
}

func TestValidateTaskCreate(t *testing.T) {
	v := New()

	req, errs := v.ValidateTask(map[string]any{"title": "  Buy milk  "}, request.TaskCreate)

	assert.Empty(t, errs)
	assert.Equal(t, "Buy milk", req.Title)
	assert.Nil(t, req.Completed)

	req, errs = v.ValidateTask(map[string]any{"title": "Buy milk", "completed": true}, request.TaskCreate)

	assert.Empty(t, errs)
	require.NotNil(t, req.Completed)
	assert.True(t, *req.Completed)
}

func TestValidateTaskTitleBounds(t *testing.T) {
	v := New()

	cases := []struct {
		name  string
		title any
		valid bool
	}{
		{"too short", "ab", false},
		{"short after trim", "  ab  ", false},
		{"minimum", "abc", true},
		{"maximum", strings.Repeat("a", 200), true},
		{"too long", strings.Repeat("a", 201), false},
		{"multibyte counted as characters", strings.Repeat("é", 200), true},
		{"not a string", 42, false},
		{"missing", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := map[string]any{}

			if tc.title != nil {
				body["title"] = tc.title
			}

			_, errs := v.ValidateTask(body, request.TaskCreate)

			if tc.valid {
				assert.Empty(t, errs)
				return
			}

			require.Len(t, errs, 1)
			assert.Equal(t, "title", errs[0].Field)
			assert.Equal(t, "Task title must be between 3 and 200 characters", errs[0].Message)
		})
	}
}

func TestValidateTaskCompletedType(t *testing.T) {
	v := New()

	_, errs := v.ValidateTask(map[string]any{"title": "Buy milk", "completed": "yes"}, request.TaskCreate)

	require.Len(t, errs, 1)
	assert.Equal(t, "completed", errs[0].Field)
	assert.Equal(t, "Completed status must be a boolean value", errs[0].Message)
	assert.Equal(t, "yes", errs[0].Value)
}

func TestValidateTaskReplaceRequiresBothFields(t *testing.T) {
	v := New()

	_, errs := v.ValidateTask(map[string]any{}, request.TaskReplace)

	assert.Equal(t, []string{"title", "completed"}, fields(errs))
	assert.Equal(t, "Completed status is required", errs[1].Message)

	req, errs := v.ValidateTask(map[string]any{"title": "Walk dog", "completed": false}, request.TaskReplace)

	assert.Empty(t, errs)
	require.NotNil(t, req.Completed)
	assert.False(t, *req.Completed)
}

func TestValidateTaskCollectsAllErrorsInFieldOrder(t *testing.T) {
	v := New()

	_, errs := v.ValidateTask(map[string]any{"completed": 1, "title": "x"}, request.TaskReplace)

	assert.Equal(t, []string{"title", "completed"}, fields(errs))
	assert.Equal(t, "x", errs[0].Value)
	assert.Equal(t, "Completed status must be a boolean value", errs[1].Message)
}

func TestValidateSignUp(t *testing.T) {
	v := New()

	req, errs := v.ValidateSignUp(map[string]any{
		"username": " alice_1 ",
		"email":    "Alice@Example.COM",
		"password": "secret1",
	})

	assert.Empty(t, errs)
	assert.Equal(t, "alice_1", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "secret1", req.Password)
}

func TestValidateSignUpMessages(t *testing.T) {
	v := New()

	cases := []struct {
		name    string
		body    map[string]any
		field   string
		message string
	}{
		{"short username", map[string]any{"username": "al", "email": "a@b.co", "password": "secret1"}, "username", "Username must be between 3 and 30 characters"},
		{"username charset", map[string]any{"username": "al ice", "email": "a@b.co", "password": "secret1"}, "username", "Username can only contain letters, numbers, and underscores"},
		{"bad email", map[string]any{"username": "alice", "email": "nope", "password": "secret1"}, "email", "Please provide a valid email address"},
		{"short password", map[string]any{"username": "alice", "email": "a@b.co", "password": "s1"}, "password", "Password must be at least 6 characters long"},
		{"password without digit", map[string]any{"username": "alice", "email": "a@b.co", "password": "secretpw"}, "password", "Password must contain at least one number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := v.ValidateSignUp(tc.body)

			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.Equal(t, tc.message, errs[0].Message)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := New()

	req, errs := v.ValidateLogin(map[string]any{"email": " Bob@Example.com ", "password": "x"})

	assert.Empty(t, errs)
	assert.Equal(t, "bob@example.com", req.Email)

	_, errs = v.ValidateLogin(map[string]any{"email": "bob@example.com"})

	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
	assert.Equal(t, "Password is required", errs[0].Message)
}
