package testutil_test

import (
	"testing"
	"time"

	"saveandplay/internal/errors"
	"saveandplay/internal/models"
	"saveandplay/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "goals", "contributions", "debts", "debt_payments", "incomes", "expenses", "categories"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	second := testutil.SetupTestDB(t)

	testutil.CreateTestUser(t, first)

	var count int64
	if err := second.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected an empty second database, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	goal := testutil.CreateTestGoal(t, db, user.ID, 1000)
	if goal.Status != models.GoalStatusActive || goal.SavedAmount != 0 {
		t.Errorf("expected a fresh active goal, got %+v", goal)
	}

	contribution := testutil.CreateTestContribution(t, db, goal, 50, time.Now())
	if contribution.GoalName != goal.Name {
		t.Errorf("expected goal name snapshot %q, got %q", goal.Name, contribution.GoalName)
	}

	debt := testutil.CreateTestDebt(t, db, user.ID, 500, 100, 15)
	if debt.DueDate != 15 {
		t.Errorf("expected due day 15, got %d", debt.DueDate)
	}

	payment := testutil.CreateTestDebtPayment(t, db, debt, 100, time.Now())
	if payment.DebtID != debt.ID {
		t.Errorf("expected payment for debt %s, got %s", debt.ID, payment.DebtID)
	}

	income := testutil.CreateTestIncome(t, db, user.ID, "Salary", 1000, time.Now())
	if income.Amount != 1000 || income.Currency != "USD" {
		t.Errorf("unexpected income %+v", income.Entry)
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryKindExpense, "Food", 2)
	if category.Kind != models.CategoryKindExpense || category.Order != 2 {
		t.Errorf("unexpected category %+v", category)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrGoalNotFound, "custom message")
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
