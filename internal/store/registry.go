package store

import (
	"fmt"

	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/models"
)

// collection describes how one namespace node maps onto a table.
type collection struct {
	newModel    func() any
	ownerColumn string
	// scope narrows a shared table to this collection.
	scope map[string]any
	// fields maps the logical field names used by callers to columns.
	// Only listed fields can be filtered, ordered or written.
	fields   map[string]string
	notFound *apperrors.AppError
	prepare  func(record any)
}

var baseFields = map[string]string{
	"id":        "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func withBase(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields)+len(baseFields))
	for k, v := range baseFields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

var entryFields = withBase(map[string]string{
	"type":           "type",
	"amount":         "amount",
	"originalAmount": "original_amount",
	"currency":       "currency",
	"date":           "date",
	"description":    "description",
})

var categoryFields = withBase(map[string]string{
	"name":  "name",
	"emoji": "emoji",
	"order": "sort_order",
})

func categoryCollection(kind models.CategoryKind) collection {
	return collection{
		newModel:    func() any { return &models.Category{} },
		ownerColumn: "user_id",
		scope:       map[string]any{"kind": kind},
		fields:      categoryFields,
		notFound:    apperrors.ErrCategoryNotFound,
		prepare: func(record any) {
			if c, ok := record.(*models.Category); ok {
				c.Kind = kind
			}
		},
	}
}

var registry = map[Collection]collection{
	Goals: {
		newModel:    func() any { return &models.Goal{} },
		ownerColumn: "user_id",
		fields: withBase(map[string]string{
			"name":        "name",
			"emoji":       "emoji",
			"totalAmount": "total_amount",
			"savedAmount": "saved_amount",
			"deadline":    "deadline",
			"status":      "status",
		}),
		notFound: apperrors.ErrGoalNotFound,
	},
	Contributions: {
		newModel:    func() any { return &models.Contribution{} },
		ownerColumn: "user_id",
		fields: withBase(map[string]string{
			"goalId":   "goal_id",
			"goalName": "goal_name",
			"amount":   "amount",
			"date":     "date",
		}),
		notFound: apperrors.ErrNotFound,
	},
	Incomes: {
		newModel:    func() any { return &models.Income{} },
		ownerColumn: "user_id",
		fields:      entryFields,
		notFound:    apperrors.ErrIncomeNotFound,
	},
	Expenses: {
		newModel:    func() any { return &models.Expense{} },
		ownerColumn: "user_id",
		fields:      entryFields,
		notFound:    apperrors.ErrExpenseNotFound,
	},
	Debts: {
		newModel:    func() any { return &models.Debt{} },
		ownerColumn: "user_id",
		fields: withBase(map[string]string{
			"name":           "name",
			"emoji":          "emoji",
			"totalAmount":    "total_amount",
			"paidAmount":     "paid_amount",
			"monthlyPayment": "monthly_payment",
			"dueDate":        "due_date",
		}),
		notFound: apperrors.ErrDebtNotFound,
	},
	DebtPayments: {
		newModel:    func() any { return &models.DebtPayment{} },
		ownerColumn: "user_id",
		fields: withBase(map[string]string{
			"debtId":   "debt_id",
			"debtName": "debt_name",
			"amount":   "amount",
			"date":     "date",
		}),
		notFound: apperrors.ErrNotFound,
	},
	IncomeCategories:  categoryCollection(models.CategoryKindIncome),
	ExpenseCategories: categoryCollection(models.CategoryKindExpense),
	Users: {
		newModel:    func() any { return &models.User{} },
		ownerColumn: "id",
		fields: withBase(map[string]string{
			"email":            "email",
			"displayCurrency":  "display_currency",
			"categoriesSeeded": "categories_seeded",
		}),
		notFound: apperrors.ErrUserNotFound,
	},
}

func lookup(p Path) (collection, error) {
	c, ok := registry[p.Collection]
	if !ok {
		return collection{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown collection %q", p.Collection))
	}
	if p.UserID == "" {
		return collection{}, apperrors.ErrUnauthorized
	}
	return c, nil
}

func (c collection) column(field string) (string, error) {
	col, ok := c.fields[field]
	if !ok {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown field %q", field))
	}
	return col, nil
}

func (c collection) columns(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for field, v := range values {
		col, err := c.column(field)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}
