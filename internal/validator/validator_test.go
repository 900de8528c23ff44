package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Currency string `validate:"omitempty,currency"`
	DueDate  int    `validate:"omitempty,day_of_month"`
	Kind     string `validate:"omitempty,category_kind"`
	Status   string `validate:"omitempty,goal_status"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		in    payload
		valid bool
	}{
		{"usd", payload{Currency: "USD"}, true},
		{"dop", payload{Currency: "DOP"}, true},
		{"unsupported currency", payload{Currency: "EUR"}, false},
		{"lowercase currency", payload{Currency: "usd"}, false},
		{"first day", payload{DueDate: 1}, true},
		{"last day", payload{DueDate: 31}, true},
		{"day 32", payload{DueDate: 32}, false},
		{"negative day", payload{DueDate: -3}, false},
		{"income kind", payload{Kind: "income"}, true},
		{"expense kind", payload{Kind: "expense"}, true},
		{"unknown kind", payload{Kind: "transfer"}, false},
		{"archived status", payload{Status: "archived"}, true},
		{"unknown status", payload{Status: "done"}, false},
		{"empty", payload{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
