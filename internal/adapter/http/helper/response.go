package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapp/internal/core/model/response"
)

// ExposeErrors adds the underlying error text to 5xx responses. It is turned
// off in production.
var ExposeErrors = true

func SendSuccess(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, response.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.Envelope{
		Success: false,
		Message: message,
	})
}

func SendValidationError(c *gin.Context, errors []response.FieldError) {
	c.JSON(http.StatusBadRequest, response.Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errors,
	})
}

func SendInternalError(c *gin.Context, message string, err error) {
	envelope := response.Envelope{
		Success: false,
		Message: message,
	}

	if ExposeErrors && err != nil {
		envelope.Error = err.Error()
	}

	c.JSON(http.StatusInternalServerError, envelope)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// AbortWithError writes the envelope and stops the handler chain.
func AbortWithError(c *gin.Context, statusCode int, message string) {
	SendError(c, statusCode, message)
	c.Abort()
}
