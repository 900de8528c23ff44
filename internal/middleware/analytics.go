package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/analytics"
)

var analyticsSkipPaths = map[string]bool{
	"/api/health": true,
}

// Analytics sends one event per successful authenticated request, named
// after the route, e.g. "api_v1_goals_:id_contributions".
func Analytics(tracker *analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tracker.Enabled() || analyticsSkipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := UserID(c)
		if !ok {
			return
		}
		event := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			props["params"] = params
		}
		tracker.Enqueue(userID, event, props)
	}
}
