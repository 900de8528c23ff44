package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"saveandplay/internal/middleware"
	"saveandplay/internal/validator"
)

const (
	testUserID = "0b7c2f3e-8f4a-4c7e-9d35-6a1f0e2b9c11"
	testGoalID = "5f0e8a52-1d1b-4c3e-a0a7-3b2f6c9d8e41"
	testDebtID = "9a3d1c7e-2b4f-4e8a-b6c5-7d0e1f2a3b55"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectUserID stands in for the auth middleware.
func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}
}

func newRouter(userID string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(injectUserID(userID))
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	body := parseJSON(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	require.Equal(t, code, errObj["code"])
}

