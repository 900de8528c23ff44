package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
)

// ErrRateLimited is returned once a client exceeds its request budget.
var ErrRateLimited = &apperrors.AppError{Code: "RATE_LIMITED", Message: "Too many requests. Please try again later.", StatusCode: 429}

// NewRateLimiter builds an in-memory limiter from a rate such as "100-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parsing rate limit %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limits requests per client IP.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return limitergin.NewMiddleware(l,
		limitergin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Get().Warnw("rate limit exceeded", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			abortWithError(c, ErrRateLimited)
		}),
		limitergin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Get().Errorw("rate limit check failed", "ip", c.ClientIP(), "error", err)
			abortWithError(c, apperrors.ErrInternalServer)
		}),
	)
}
