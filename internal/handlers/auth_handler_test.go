package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"saveandplay/internal/analytics"
	"saveandplay/internal/currency"
	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/middleware"
	"saveandplay/internal/models"
)

func setupAuthRouter(users *mockUserService, userID string) *gin.Engine {
	tracker, _ := analytics.NewTracker("", "")
	h := NewAuthHandler(users, tracker)
	r := newRouter(userID)
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.GET("/api/v1/profile", h.GetProfile)
	r.PUT("/api/v1/profile", h.UpdateProfile)
	return r
}

func testUser() *models.User {
	u := &models.User{Email: "ana@example.com", DisplayCurrency: "USD"}
	u.ID = testUserID
	return u
}

func TestRegister(t *testing.T) {
	users := new(mockUserService)
	users.On("Register", mock.Anything, "ana@example.com", "supersecret").Return(testUser(), nil)
	r := setupAuthRouter(users, "")

	w := doRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "ana@example.com",
		"password": "supersecret",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := parseJSON(t, w)
	token, _ := body["token"].(string)
	claims, err := middleware.ParseAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserService)
	users.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateEmail)
	r := setupAuthRouter(users, "")

	w := doRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "ana@example.com",
		"password": "supersecret",
	})
	assertErrorCode(t, w, http.StatusConflict, "DUPLICATE_EMAIL")
}

func TestRegister_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"bad email", map[string]string{"email": "nope", "password": "supersecret"}},
		{"short password", map[string]string{"email": "ana@example.com", "password": "short"}},
		{"malformed json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserService)
			r := setupAuthRouter(users, "")
			w := doRequest(r, http.MethodPost, "/api/v1/auth/register", tt.body)
			assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
			users.AssertNumberOfCalls(t, "Register", 0)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := new(mockUserService)
	users.On("AttemptLogin", mock.Anything, "ana@example.com", "wrongpass").Return(nil, apperrors.ErrInvalidCredentials)
	r := setupAuthRouter(users, "")

	w := doRequest(r, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrongpass",
	})
	assertErrorCode(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	r := setupAuthRouter(new(mockUserService), "")
	w := doRequest(r, http.MethodGet, "/api/v1/profile", nil)
	assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestUpdateProfile(t *testing.T) {
	users := new(mockUserService)
	updated := testUser()
	updated.DisplayCurrency = "DOP"
	users.On("SetDisplayCurrency", mock.Anything, testUserID, currency.DOP).Return(updated, nil)
	r := setupAuthRouter(users, testUserID)

	w := doRequest(r, http.MethodPut, "/api/v1/profile", map[string]string{"display_currency": "DOP"})

	assert.Equal(t, http.StatusOK, w.Code)
	user := parseJSON(t, w)["user"].(map[string]any)
	assert.Equal(t, "DOP", user["display_currency"])
}

func TestUpdateProfile_UnsupportedCurrency(t *testing.T) {
	users := new(mockUserService)
	r := setupAuthRouter(users, testUserID)

	w := doRequest(r, http.MethodPut, "/api/v1/profile", map[string]string{"display_currency": "EUR"})
	assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
}
