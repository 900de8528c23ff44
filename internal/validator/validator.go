// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("currency", validateCurrency)
	_ = v.RegisterValidation("day_of_month", validateDayOfMonth)
	_ = v.RegisterValidation("category_kind", validateCategoryKind)
	_ = v.RegisterValidation("goal_status", validateGoalStatus)
}

func validateCurrency(fl validator.FieldLevel) bool {
	return currency.Supported(currency.Code(fl.Field().String()))
}

func validateDayOfMonth(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 1 && day <= 31
}

func validateCategoryKind(fl validator.FieldLevel) bool {
	switch models.CategoryKind(fl.Field().String()) {
	case models.CategoryKindIncome, models.CategoryKindExpense:
		return true
	}
	return false
}

func validateGoalStatus(fl validator.FieldLevel) bool {
	switch models.GoalStatus(fl.Field().String()) {
	case models.GoalStatusActive, models.GoalStatusArchived:
		return true
	}
	return false
}
