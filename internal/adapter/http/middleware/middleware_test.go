package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"taskapp/internal/core/model/response"
	"taskapp/pkg/auth"
	ct "taskapp/pkg/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(jwt *auth.JWT) *gin.Engine {
	router := gin.New()
	router.Use(CurrentMiddleware())

	router.GET("/me", JwtAuthMiddleware(jwt), func(c *gin.Context) {
		userID, ok := UserID(c)

		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}

		owner, _ := ct.GetCurrent(c.Request.Context()).GetString(ct.UserIDKey)
		c.JSON(http.StatusOK, gin.H{"id": userID.String(), "current": owner})
	})

	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	var envelope response.Envelope
	Expect(json.Unmarshal(w.Body.Bytes(), &envelope)).To(Succeed())
	return envelope
}

func TestJwtAuthMiddleware(t *testing.T) {
	RegisterTestingT(t)

	jwt := auth.NewJWT("secret", time.Hour)
	router := authRouter(jwt)
	userID := uuid.New()

	token, err := jwt.CreateToken(userID)
	Expect(err).ToNot(HaveOccurred())

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(userID.String()))
		Expect(w.Header().Get(RequestIDHeader)).ToNot(BeEmpty())
	})

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"garbage token":  "Bearer not-a-token",
		"foreign secret": "Bearer " + mustToken(auth.NewJWT("other", time.Hour), userID),
		"expired token":  "Bearer " + mustToken(auth.NewJWT("secret", -time.Minute), userID),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)

			if header != "" {
				req.Header.Set("Authorization", header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			envelope := decodeEnvelope(t, w)
			Expect(envelope.Success).To(BeFalse())
			Expect(envelope.Message).ToNot(BeEmpty())
		})
	}
}

func mustToken(jwt *auth.JWT, userID uuid.UUID) string {
	token, err := jwt.CreateToken(userID)

	if err != nil {
		panic(err)
	}

	return token
}

func TestCurrentMiddlewareKeepsIncomingRequestID(t *testing.T) {
	RegisterTestingT(t)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetCurrent(c).RequestID())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	Expect(w.Body.String()).To(Equal("req-123"))
	Expect(w.Header().Get(RequestIDHeader)).To(Equal("req-123"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	Expect(w.Body.String()).To(HaveLen(21))
}

func TestHTTPSEnforcer(t *testing.T) {
	RegisterTestingT(t)

	router := gin.New()
	router.Use(NewHTTPSEnforcer(true, zap.NewNop()).Middleware())
	router.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/tasks?page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/tasks?page=2"))

	req = httptest.NewRequest(http.MethodGet, "/tasks?sortBy=title", nil)
	req.Host = "api.example.com"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/tasks?sortBy=title"))

	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/tasks", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))

	req = httptest.NewRequest(http.MethodGet, "http://localhost:8080/tasks", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestCorsMiddlewarePreflight(t *testing.T) {
	RegisterTestingT(t)

	router := gin.New()
	router.Use(CorsMiddleware())
	router.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/tasks", nil))

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
}
