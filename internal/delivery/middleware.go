package delivery

import (
	"net/http"
	"strings"
	"time"

	"legerity_service/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	userIDKey       = "userID"
	requestIDHeader = "X-Request-ID"
)

// AccessTokenValidator is satisfied by *auth.JWTManager.
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

func AuthMiddleware(tokens AccessTokenValidator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication credentials were not provided."})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			log.Warn("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Authorization header format"})
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			log.Warnf("Middleware: Rejected access token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Given token not valid for any token type"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// currentUserID is only valid behind AuthMiddleware.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  time.Since(startTime).Milliseconds(),
		})
		if reqID := c.Writer.Header().Get(requestIDHeader); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}
		if userID, ok := c.Get(userIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}

		switch {
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
