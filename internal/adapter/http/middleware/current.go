package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/jaevor/go-nanoid"

	"taskapp/pkg"
	ct "taskapp/pkg/context"
)

const RequestIDHeader = "X-Request-ID"

var newRequestID func() string

func init() {
	generator, err := nanoid.Standard(21)

	if err != nil {
		panic(err)
	}

	newRequestID = generator
}

func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = newRequestID()
		}

		current.Set(ct.RequestIDKey, requestID)
		current.Set(ct.ClientIPKey, pkg.GetClientIP(c))
		current.Set("user_agent", c.Request.UserAgent())
		current.Set("method", c.Request.Method)
		current.Set("path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))
		c.Set("current", current)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
