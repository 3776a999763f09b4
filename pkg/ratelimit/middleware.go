package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "taskapp/pkg"
	"taskapp/pkg/telemetry"
)

type Rule struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	store   Store
	rules   map[string]Rule
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

const DefaultRule = "default"

func NewRateLimiter(store Store, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		store: store,
		rules: map[string]Rule{
			DefaultRule: {
				Requests: 60,
				Window:   time.Minute,
				KeyFunc:  GetClientIP,
			},
		},
		logger:  logger,
		metrics: metrics,
	}
}

// SetRule registers a limit for a route group. name is matched against the
// group passed to Middleware.
func (rl *RateLimiter) SetRule(name string, rule Rule) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if rule.KeyFunc == nil {
		rule.KeyFunc = GetClientIP
	}

	rl.rules[name] = rule
}

func (rl *RateLimiter) rule(name string) Rule {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if rule, ok := rl.rules[name]; ok {
		return rule
	}

	return rl.rules[DefaultRule]
}

// Middleware limits the routes of one group. It fails open when the store is
// unavailable.
func (rl *RateLimiter) Middleware(group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := rl.rule(group)
		identifier := rule.KeyFunc(c)
		key := fmt.Sprintf("rate_limit:%s:%s", group, identifier)

		result, err := rl.store.Allow(c.Request.Context(), key, rule.Requests, rule.Window)

		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("group", group),
				zap.Error(err))
			c.Next()
			return
		}

		keyType := "ip"
		if _, ok := c.Get(UserIDContextKey); ok {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), group, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": fmt.Sprintf("Too many requests. Limit: %d per %v", rule.Requests, rule.Window),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), group, keyType)
		}

		c.Next()
	}
}

// UserIDContextKey is the gin key the auth middleware stores the caller under.
const UserIDContextKey = "x-user-id"

// UserKey identifies authenticated callers by id and falls back to client IP.
func UserKey(c *gin.Context) string {
	if userID, exists := c.Get(UserIDContextKey); exists {
		return fmt.Sprintf("user_%v", userID)
	}

	return GetClientIP(c)
}
