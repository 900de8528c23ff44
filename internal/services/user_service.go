package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"saveandplay/internal/currency"
	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
	"saveandplay/internal/models"
	"saveandplay/internal/store"
)

// userService handles user-related business logic.
type userService struct {
	store      *store.Store
	categories CategoryServicer
}

// NewUserService creates a new UserServicer. New users get the default
// categories through categories.
func NewUserService(st *store.Store, categories CategoryServicer) UserServicer {
	return &userService{store: st, categories: categories}
}

func userPath(userID string) store.Path {
	return store.Path{Collection: store.Users, UserID: userID}
}

// Register creates a user with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.store.DB().WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user := &models.User{
		Email:           email,
		Password:        string(hashedPassword),
		DisplayCurrency: string(currency.USD),
	}
	if err := s.store.Commit(ctx, store.NewBatch().Create(userPath(id.String()), user)); err != nil {
		return nil, err
	}

	if s.categories != nil {
		if err := s.categories.SeedDefaults(ctx, user.ID); err != nil {
			logger.Get().Errorw("failed to seed default categories", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// AttemptLogin returns the user when the password matches. Unknown emails
// and wrong passwords fail the same way.
func (s *userService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.store.DB().WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.store.Get(ctx, userPath(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetDisplayCurrency changes the currency amounts are shown in.
func (s *userService) SetDisplayCurrency(ctx context.Context, userID string, code currency.Code) (*models.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !currency.Supported(code) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
	}
	if err := s.store.Commit(ctx, store.NewBatch().Update(userPath(userID), map[string]any{"displayCurrency": string(code)})); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}
