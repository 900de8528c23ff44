package models

import "time"

// Debt is a running counter of repayments against a total. It has no
// status: a debt stays listed and payable after PaidAmount passes TotalAmount.
type Debt struct {
	Base
	Owned
	Name           string  `gorm:"not null" json:"name"`
	Emoji          string  `json:"emoji"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`
	PaidAmount     float64 `gorm:"not null;default:0" json:"paid_amount"`
	MonthlyPayment float64 `gorm:"not null" json:"monthly_payment"`
	DueDate        int     `gorm:"not null" json:"due_date"` // day of month, 1-31
}

// Remaining is the unpaid balance; negative when overpaid.
func (d *Debt) Remaining() float64 { return d.TotalAmount - d.PaidAmount }

// DebtPayment records one repayment. DebtName is a write-time snapshot.
type DebtPayment struct {
	Base
	Owned
	DebtID   string    `gorm:"type:uuid;not null;index" json:"debt_id"`
	DebtName string    `gorm:"not null" json:"debt_name"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Date     time.Time `gorm:"not null;index" json:"date"`
}

func (p DebtPayment) RecordDate() time.Time { return p.Date }
func (p DebtPayment) RecordAmount() float64 { return p.Amount }
