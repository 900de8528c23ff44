package models

import "time"

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusArchived GoalStatus = "archived"
)

// Goal is a savings target. Status moves from active to archived once,
// the first time SavedAmount reaches TotalAmount, and never back.
type Goal struct {
	Base
	Owned
	Name        string     `gorm:"not null" json:"name"`
	Emoji       string     `json:"emoji"`
	TotalAmount float64    `gorm:"not null" json:"total_amount"`
	SavedAmount float64    `gorm:"not null;default:0" json:"saved_amount"`
	Deadline    time.Time  `gorm:"not null" json:"deadline"`
	Status      GoalStatus `gorm:"size:16;not null;default:active;index" json:"status"`
}

// IsArchived reports whether the goal has reached its terminal state.
func (g *Goal) IsArchived() bool { return g.Status == GoalStatusArchived }

// Reached reports whether the saved amount covers the target.
func (g *Goal) Reached() bool { return g.SavedAmount >= g.TotalAmount }

// Contribution is an immutable deposit towards a goal. GoalName is copied
// from the goal when the contribution is written and is not kept in sync.
type Contribution struct {
	Base
	Owned
	GoalID   string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	GoalName string    `gorm:"not null" json:"goal_name"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Date     time.Time `gorm:"not null;index" json:"date"`
}

func (c Contribution) RecordDate() time.Time { return c.Date }
func (c Contribution) RecordAmount() float64 { return c.Amount }
