package validation

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// messages overrides the default English translation for a scope.field.tag.
// The "type" tag is used when a field holds the wrong JSON type.
var messages = map[string]string{
	"task.title.type":     "Task title must be between 3 and 200 characters",
	"task.title.required": "Task title must be between 3 and 200 characters",
	"task.title.min":      "Task title must be between 3 and 200 characters",
	"task.title.max":      "Task title must be between 3 and 200 characters",

	"task.completed.type":     "Completed status must be a boolean value",
	"task.completed.required": "Completed status is required",

	"signup.username.type":     "Username must be between 3 and 30 characters",
	"signup.username.required": "Username must be between 3 and 30 characters",
	"signup.username.min":      "Username must be between 3 and 30 characters",
	"signup.username.max":      "Username must be between 3 and 30 characters",
	"signup.username.username": "Username can only contain letters, numbers, and underscores",

	"signup.email.type":     "Please provide a valid email address",
	"signup.email.required": "Please provide a valid email address",
	"signup.email.email":    "Please provide a valid email address",
	"signup.email.max":      "Please provide a valid email address",

	"signup.password.type":        "Password must be at least 6 characters long",
	"signup.password.required":    "Password must be at least 6 characters long",
	"signup.password.min":         "Password must be at least 6 characters long",
	"signup.password.max":         "Password must be at most 100 characters long",
	"signup.password.containsany": "Password must contain at least one number",

	"login.email.type":     "Please provide a valid email address",
	"login.email.required": "Please provide a valid email address",
	"login.email.email":    "Please provide a valid email address",

	"login.password.type":     "Password is required",
	"login.password.required": "Password is required",
}

var fieldOrder = map[string][]string{
	"task":   {"title", "completed"},
	"signup": {"username", "email", "password"},
	"login":  {"email", "password"},
}

type taskCreatePayload struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
}

type taskReplacePayload struct {
	Title     string `json:"title" validate:"required,min=3,max=200"`
	Completed *bool  `json:"completed" validate:"required"`
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	for key, message := range messages {
		if err := translator.Add(key, message, true); err != nil {
			panic(err)
		}
	}

	return &Validator{validate: validate, translator: translator}
}

func (v *Validator) ValidateTask(body map[string]any, mode request.TaskMode) (request.TaskRequest, []response.FieldError) {
	collector := v.collector("task", body)

	req := request.TaskRequest{
		Title: strings.TrimSpace(collector.text("title")),
	}

	if raw, ok := body["completed"]; ok && raw != nil {
		if completed, isBool := raw.(bool); isBool {
			req.Completed = &completed
		} else {
			collector.add("completed", "type", raw)
		}
	}

	var payload any = taskCreatePayload{Title: req.Title}

	if mode == request.TaskReplace {
		payload = taskReplacePayload{Title: req.Title, Completed: req.Completed}
	}

	collector.check(v.validate.Struct(payload), map[string]any{"title": req.Title})

	return req, collector.result()
}

func (v *Validator) ValidateSignUp(body map[string]any) (request.SignUpRequest, []response.FieldError) {
	collector := v.collector("signup", body)

	req := request.SignUpRequest{
		Username: strings.TrimSpace(collector.text("username")),
		Email:    domain.NormalizeEmail(collector.text("email")),
		Password: collector.text("password"),
	}

	collector.check(v.validate.Struct(req), map[string]any{
		"username": req.Username,
		"email":    req.Email,
		"password": req.Password,
	})

	return req, collector.result()
}

func (v *Validator) ValidateLogin(body map[string]any) (request.LoginRequest, []response.FieldError) {
	collector := v.collector("login", body)

	req := request.LoginRequest{
		Email:    domain.NormalizeEmail(collector.text("email")),
		Password: collector.text("password"),
	}

	collector.check(v.validate.Struct(req), map[string]any{
		"email":    req.Email,
		"password": req.Password,
	})

	return req, collector.result()
}

func (v *Validator) collector(scope string, body map[string]any) *collector {
	return &collector{v: v, scope: scope, body: body, seen: map[string]bool{}}
}

// collector gathers at most one error per field, in declaration order.
type collector struct {
	v      *Validator
	scope  string
	body   map[string]any
	seen   map[string]bool
	errors []response.FieldError
}

// text reads a string field. Any other JSON type is recorded as a type
// error and read as empty.
func (c *collector) text(field string) string {
	raw, ok := c.body[field]

	if !ok || raw == nil {
		return ""
	}

	value, isString := raw.(string)

	if !isString {
		c.add(field, "type", raw)
	}

	return value
}

func (c *collector) check(err error, values map[string]any) {
	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok {
		return
	}

	for _, fe := range validationErrors {
		c.addTranslated(fe.Field(), fe.Tag(), values[fe.Field()], fe)
	}
}

func (c *collector) add(field, tag string, value any) {
	c.addTranslated(field, tag, value, nil)
}

func (c *collector) addTranslated(field, tag string, value any, fe validator.FieldError) {
	if c.seen[field] {
		return
	}

	c.seen[field] = true

	message, err := c.v.translator.T(c.scope + "." + field + "." + tag)

	if err != nil && fe != nil {
		message = fe.Translate(c.v.translator)
	}

	c.errors = append(c.errors, response.FieldError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

func (c *collector) result() []response.FieldError {
	order := map[string]int{}

	for i, field := range fieldOrder[c.scope] {
		order[field] = i
	}

	sort.SliceStable(c.errors, func(i, j int) bool {
		return order[c.errors[i].Field] < order[c.errors[j].Field]
	})

	return c.errors
}
