package models

import "time"

// Entry holds the columns shared by incomes and expenses. Amount is in the
// canonical currency; OriginalAmount and Currency keep what the user typed.
// Type is a category name, not a foreign key.
type Entry struct {
	Type           string    `gorm:"not null" json:"type"`
	Amount         float64   `gorm:"not null" json:"amount"`
	OriginalAmount float64   `gorm:"not null" json:"original_amount"`
	Currency       string    `gorm:"size:3;not null" json:"currency"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	Description    string    `json:"description,omitempty"`
}

// Income is money received.
type Income struct {
	Base
	Owned
	Entry
}

// Expense is money spent outside goals and debts.
type Expense struct {
	Base
	Owned
	Entry
}

func (e Entry) RecordDate() time.Time { return e.Date }
func (e Entry) RecordAmount() float64 { return e.Amount }
