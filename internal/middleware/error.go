package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
)

// ErrorHandler turns the last error attached with c.Error into the JSON
// error envelope, unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			logger.Get().Errorw("unexpected error",
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(RequestIDKey),
			)
			appErr = apperrors.ErrInternalServer
		} else if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"kind", apperrors.Kind(appErr),
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
			)
		}
		abortWithError(c, appErr)
	}
}
