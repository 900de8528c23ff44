package services

import (
	"context"
	"strings"
	"time"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
	"saveandplay/internal/pagination"
	"saveandplay/internal/store"
)

// ledgerService handles incomes and expenses. Both store the canonical
// amount next to what the user typed.
type ledgerService struct {
	store      *store.Store
	normalizer *currency.Normalizer
	now        func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(st *store.Store, normalizer *currency.Normalizer) LedgerServicer {
	return &ledgerService{store: st, normalizer: normalizer, now: time.Now}
}

func (s *ledgerService) entry(in EntryInput) (models.Entry, error) {
	typ, err := cleanName("type", in.Type)
	if err != nil {
		return models.Entry{}, err
	}
	code := in.Currency
	if code == "" {
		code = s.normalizer.Canonical()
	}
	amount, err := s.normalizer.ToCanonical(in.Amount, code)
	if err != nil {
		return models.Entry{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	return models.Entry{
		Type:           typ,
		Amount:         amount,
		OriginalAmount: in.Amount,
		Currency:       string(code),
		Date:           date,
		Description:    strings.TrimSpace(in.Description),
	}, nil
}

func entryFields(e models.Entry) map[string]any {
	return map[string]any{
		"type":           e.Type,
		"amount":         e.Amount,
		"originalAmount": e.OriginalAmount,
		"currency":       e.Currency,
		"date":           e.Date,
		"description":    e.Description,
	}
}

// CreateIncome records money received.
func (s *ledgerService) CreateIncome(ctx context.Context, userID string, in EntryInput) (*models.Income, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	e, err := s.entry(in)
	if err != nil {
		return nil, err
	}
	income := &models.Income{Entry: e}
	if err := s.store.Commit(ctx, store.NewBatch().Create(store.Root(store.Incomes, userID), income)); err != nil {
		return nil, err
	}
	return income, nil
}

// UpdateIncome replaces every field of an income.
func (s *ledgerService) UpdateIncome(ctx context.Context, userID, incomeID string, in EntryInput) (*models.Income, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	e, err := s.entry(in)
	if err != nil {
		return nil, err
	}
	path := store.Record(store.Incomes, userID, incomeID)
	if err := s.store.Commit(ctx, store.NewBatch().Update(path, entryFields(e))); err != nil {
		return nil, err
	}
	var income models.Income
	if err := s.store.Get(ctx, path, &income); err != nil {
		return nil, err
	}
	return &income, nil
}

// DeleteIncome removes an income.
func (s *ledgerService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.Commit(ctx, store.NewBatch().Delete(store.Record(store.Incomes, userID, incomeID)))
}

// ListIncomes returns one page of incomes, newest first.
func (s *ledgerService) ListIncomes(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return listPage[models.Income](ctx, s.store, store.Root(store.Incomes, userID), page)
}

// CreateExpense records money spent.
func (s *ledgerService) CreateExpense(ctx context.Context, userID string, in EntryInput) (*models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	e, err := s.entry(in)
	if err != nil {
		return nil, err
	}
	expense := &models.Expense{Entry: e}
	if err := s.store.Commit(ctx, store.NewBatch().Create(store.Root(store.Expenses, userID), expense)); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces every field of an expense.
func (s *ledgerService) UpdateExpense(ctx context.Context, userID, expenseID string, in EntryInput) (*models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	e, err := s.entry(in)
	if err != nil {
		return nil, err
	}
	path := store.Record(store.Expenses, userID, expenseID)
	if err := s.store.Commit(ctx, store.NewBatch().Update(path, entryFields(e))); err != nil {
		return nil, err
	}
	var expense models.Expense
	if err := s.store.Get(ctx, path, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense.
func (s *ledgerService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.store.Commit(ctx, store.NewBatch().Delete(store.Record(store.Expenses, userID, expenseID)))
}

// ListExpenses returns one page of expenses, newest first.
func (s *ledgerService) ListExpenses(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return listPage[models.Expense](ctx, s.store, store.Root(store.Expenses, userID), page)
}
