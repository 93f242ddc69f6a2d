package router

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swiftbites.app/storefront/pkg/global"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	}
}

type AdminCredentials struct {
	User         string
	PasswordHash []byte
}

// AdminMiddleware guards admin routes with HTTP basic auth checked against a
// bcrypt hash. Without a configured hash every request is rejected.
func AdminMiddleware(creds AdminCredentials, log *slog.Logger) gin.HandlerFunc {
	if len(creds.PasswordHash) == 0 {
		log.Warn("admin password not configured, admin routes are locked",
			"required", "ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
	}

	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		if ok && len(creds.PasswordHash) > 0 &&
			subtle.ConstantTimeCompare([]byte(user), []byte(creds.User)) == 1 &&
			bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(password)) == nil {
			c.Next()
			return
		}

		c.Header("WWW-Authenticate", `Basic realm="admin"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, global.ErrorResponse("Invalid credentials", nil))
	}
}
