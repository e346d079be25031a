package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/auth"
	"github.com/Domenick1991/dummydata/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	UsernameKey     = "username"
)

// RequestID takes X-Request-ID from the request or generates one, and stores
// it in the request context and the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), reqID))
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", logger.RequestID(c.Request.Context())),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireSession rejects requests without a valid session token, read from the
// cookie or from an "Authorization: Bearer" header.
func RequireSession(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c, cookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			// a broken session store is not a logout
			if status := apperror.StatusOf(err); status != http.StatusUnauthorized {
				c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

func BearerToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}
