package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"saveandplay/internal/analytics"
	"saveandplay/internal/config"
	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return errObj["code"].(string)
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "email": c.GetString(EmailKey)})
	})
	return r
}

func authRequest(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{Base: models.Base{ID: "0196b5c2-0000-7000-8000-000000000001"}, Email: "ana@example.com"}

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("generating token: %v", err)
		}
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if body["user_id"] != user.ID || body["email"] != user.Email {
			t.Errorf("unexpected identity: %v", body)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := serve(setupAuthRouter(), authRequest(""))
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Fatalf("expected 401 UNAUTHORIZED, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := serve(setupAuthRouter(), authRequest("Basic abc"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := serve(setupAuthRouter(), authRequest("Bearer not-a-jwt"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Issuer:    issuer,
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Get().JWTSecret))
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token signed with another key", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    issuer,
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someone-else"))
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		id := rec.Header().Get("X-Request-ID")
		if _, err := ulid.ParseStrict(id); err != nil {
			t.Fatalf("expected a ULID request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("context and header ids differ: %q vs %q", rec.Body.String(), id)
		}
	})

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		incoming := ulid.Make().String()
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", incoming)
		rec := serve(r, req)
		if rec.Header().Get("X-Request-ID") != incoming {
			t.Errorf("expected %s, got %s", incoming, rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("replaces an invalid incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", "<script>")
		rec := serve(r, req)
		if rec.Header().Get("X-Request-ID") == "<script>" {
			t.Error("invalid request id was echoed back")
		}
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrGoalNotFound) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{})
		_ = c.Error(errors.New("late"))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "GOAL_NOT_FOUND" {
		t.Errorf("expected 404 GOAL_NOT_FOUND, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/written", http.NoBody))
	if rec.Code != http.StatusAccepted {
		t.Errorf("written response must be kept, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	l, err := NewRateLimiter("2-M")
	if err != nil {
		t.Fatalf("creating limiter: %v", err)
	}
	r := gin.New()
	r.Use(RateLimit(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	if rec.Code != http.StatusTooManyRequests || errorCode(t, rec) != "RATE_LIMITED" {
		t.Fatalf("expected 429 RATE_LIMITED, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := NewRateLimiter("lots"); err == nil {
		t.Error("expected an error for a malformed rate")
	}
}

func TestAnalyticsDisabledPassesThrough(t *testing.T) {
	tracker, _ := analytics.NewTracker("", "")
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(UserIDKey, "user-1"); c.Next() })
	r.Use(Analytics(tracker))
	r.GET("/api/v1/goals", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/goals", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
