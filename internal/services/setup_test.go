package services

import (
	"testing"

	"gorm.io/gorm"

	"saveandplay/internal/currency"
	"saveandplay/internal/store"
	"saveandplay/internal/testutil"
)

func setupStore(t *testing.T) (*gorm.DB, *store.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, store.New(db)
}

func newGoalTestService(t *testing.T) (*gorm.DB, *store.Store, GoalServicer) {
	t.Helper()
	db, st := setupStore(t)
	return db, st, NewGoalService(st, currency.Default())
}

func newDebtTestService(t *testing.T) (*gorm.DB, *store.Store, DebtServicer) {
	t.Helper()
	db, st := setupStore(t)
	return db, st, NewDebtService(st, currency.Default())
}

func ptr[T any](v T) *T { return &v }
