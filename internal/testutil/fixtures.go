package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"saveandplay/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:           email,
		Password:        string(hash),
		DisplayCurrency: "USD",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoal creates an active goal with nothing saved and a deadline
// three months out.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, total float64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		Owned:       models.Owned{UserID: userID},
		Name:        fmt.Sprintf("Goal %d", nextID()),
		Emoji:       "🎯",
		TotalAmount: total,
		Deadline:    time.Now().AddDate(0, 3, 0),
		Status:      models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestContribution records a contribution without touching the goal's
// saved amount. Tests that need both in sync go through the goal service.
func CreateTestContribution(t *testing.T, db *gorm.DB, goal *models.Goal, amount float64, date time.Time) *models.Contribution {
	t.Helper()

	c := &models.Contribution{
		Owned:    models.Owned{UserID: goal.UserID},
		GoalID:   goal.ID,
		GoalName: goal.Name,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return c
}

// CreateTestDebt creates a debt with nothing paid.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID string, total, monthly float64, dueDay int) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		Owned:          models.Owned{UserID: userID},
		Name:           fmt.Sprintf("Debt %d", nextID()),
		Emoji:          "💳",
		TotalAmount:    total,
		MonthlyPayment: monthly,
		DueDate:        dueDay,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestDebtPayment records a payment without touching the debt's
// paid amount.
func CreateTestDebtPayment(t *testing.T, db *gorm.DB, debt *models.Debt, amount float64, date time.Time) *models.DebtPayment {
	t.Helper()

	p := &models.DebtPayment{
		Owned:    models.Owned{UserID: debt.UserID},
		DebtID:   debt.ID,
		DebtName: debt.Name,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test debt payment: %v", err)
	}
	return p
}

func testEntry(typ string, amount float64, date time.Time) models.Entry {
	return models.Entry{
		Type:           typ,
		Amount:         amount,
		OriginalAmount: amount,
		Currency:       "USD",
		Date:           date,
	}
}

// CreateTestIncome creates a USD income.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, typ string, amount float64, date time.Time) *models.Income {
	t.Helper()

	income := &models.Income{Owned: models.Owned{UserID: userID}, Entry: testEntry(typ, amount, date)}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates a USD expense.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, typ string, amount float64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{Owned: models.Owned{UserID: userID}, Entry: testEntry(typ, amount, date)}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestCategory creates a category of the given kind at position order.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, kind models.CategoryKind, name string, order int) *models.Category {
	t.Helper()

	category := &models.Category{
		Owned: models.Owned{UserID: userID},
		Kind:  kind,
		Name:  name,
		Emoji: "🏷️",
		Order: order,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}
