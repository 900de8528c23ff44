package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"saveandplay/internal/logger"
)

// RequestIDKey holds the request ID in the Gin context.
const RequestIDKey = "requestID"

// RequestLogging tags each request with a ULID request ID, echoes it in the
// X-Request-ID header and logs the request once it completes. A valid
// incoming X-Request-ID is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if _, err := ulid.ParseStrict(requestID); err != nil {
			requestID = ulid.Make().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := UserID(c); ok {
			fields = append(fields, "user_id", userID)
		}
		logger.Get().Infow("request", fields...)
	}
}
