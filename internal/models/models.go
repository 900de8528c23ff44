// Package models defines the persisted records of the application.
package models

// All lists every model, in dependency order, for auto-migration.
func All() []any {
	return []any{
		&User{},
		&Goal{},
		&Contribution{},
		&Debt{},
		&DebtPayment{},
		&Income{},
		&Expense{},
		&Category{},
		&AuditLog{},
	}
}
