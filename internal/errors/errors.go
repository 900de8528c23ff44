// Package errors provides the application error type shared by the store,
// the domain services and the HTTP layer. Every service-layer failure is an
// *AppError so callers can classify it without string matching.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an *AppError carrying the same code, so that
// errors.Is(err, ErrGoalNotFound) holds for wrapped or re-messaged copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConcurrentUpdate = &AppError{Code: "CONCURRENT_UPDATE", Message: "The record changed while it was being updated", StatusCode: http.StatusConflict}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrGoalArchived = &AppError{Code: "GOAL_ARCHIVED", Message: "Cannot contribute to an archived goal", StatusCode: http.StatusConflict}
)

// Debt errors.
var (
	ErrDebtNotFound = &AppError{Code: "DEBT_NOT_FOUND", Message: "Debt not found", StatusCode: http.StatusNotFound}
)

// Ledger errors.
var (
	ErrIncomeNotFound  = &AppError{Code: "INCOME_NOT_FOUND", Message: "Income not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// ErrorKind is the coarse classification of an error that the presentation
// layer needs to pick a message: bad input, missing identity, missing record,
// forbidden state transition, or anything else.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindAuth         ErrorKind = "auth"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidState ErrorKind = "invalid_state"
	KindInternal     ErrorKind = "internal"
)

// Kind classifies err. Non-AppErrors are internal.
func Kind(err error) ErrorKind {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return KindInternal
	}
	switch appErr.StatusCode {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		if appErr.Code == ErrDuplicateEmail.Code {
			return KindValidation
		}
		return KindInvalidState
	default:
		return KindInternal
	}
}
