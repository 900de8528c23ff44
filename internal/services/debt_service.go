package services

import (
	"context"
	"time"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
	"saveandplay/internal/store"
)

// debtService handles debts and their payments. Debts have no completion
// state: paying past the total is accepted and the debt stays listed.
type debtService struct {
	store      *store.Store
	normalizer *currency.Normalizer
	now        func() time.Time
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(st *store.Store, normalizer *currency.Normalizer) DebtServicer {
	return &debtService{store: st, normalizer: normalizer, now: time.Now}
}

func validDueDate(day int) error {
	if day < 1 || day > 31 {
		return invalid("due date must be a day of the month between 1 and 31")
	}
	return nil
}

// CreateDebt creates a debt with nothing paid.
func (s *debtService) CreateDebt(ctx context.Context, userID, name, emoji string, totalAmount, monthlyPayment float64, dueDate int) (*models.Debt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name, err := cleanName("name", name)
	if err != nil {
		return nil, err
	}
	if err := positive("total amount", totalAmount); err != nil {
		return nil, err
	}
	if err := positive("monthly payment", monthlyPayment); err != nil {
		return nil, err
	}
	if err := validDueDate(dueDate); err != nil {
		return nil, err
	}

	debt := &models.Debt{
		Name:           name,
		Emoji:          emoji,
		TotalAmount:    totalAmount,
		PaidAmount:     0,
		MonthlyPayment: monthlyPayment,
		DueDate:        dueDate,
	}
	if err := s.store.Commit(ctx, store.NewBatch().Create(store.Root(store.Debts, userID), debt)); err != nil {
		return nil, err
	}
	return debt, nil
}

// GetDebt returns one debt.
func (s *debtService) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var debt models.Debt
	if err := s.store.Get(ctx, store.Record(store.Debts, userID, debtID), &debt); err != nil {
		return nil, err
	}
	return &debt, nil
}

// ListDebts returns the user's debts by due day.
func (s *debtService) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var debts []models.Debt
	if err := s.store.List(ctx, store.Root(store.Debts, userID), &debts, store.ListOptions{OrderBy: "dueDate"}); err != nil {
		return nil, err
	}
	return debts, nil
}

// UpdateDebt edits a debt's terms. The paid amount only moves through Pay.
func (s *debtService) UpdateDebt(ctx context.Context, userID, debtID string, update DebtUpdate) (*models.Debt, error) {
	if _, err := s.GetDebt(ctx, userID, debtID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if update.Name != nil {
		name, err := cleanName("name", *update.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if update.Emoji != nil {
		fields["emoji"] = *update.Emoji
	}
	if update.TotalAmount != nil {
		if err := positive("total amount", *update.TotalAmount); err != nil {
			return nil, err
		}
		fields["totalAmount"] = *update.TotalAmount
	}
	if update.MonthlyPayment != nil {
		if err := positive("monthly payment", *update.MonthlyPayment); err != nil {
			return nil, err
		}
		fields["monthlyPayment"] = *update.MonthlyPayment
	}
	if update.DueDate != nil {
		if err := validDueDate(*update.DueDate); err != nil {
			return nil, err
		}
		fields["dueDate"] = *update.DueDate
	}

	if len(fields) > 0 {
		path := store.Record(store.Debts, userID, debtID)
		if err := s.store.Commit(ctx, store.NewBatch().Update(path, fields)); err != nil {
			return nil, err
		}
	}
	return s.GetDebt(ctx, userID, debtID)
}

// Pay records a payment of amount, entered in code, and adds it to the
// debt's paid amount in the same transaction.
func (s *debtService) Pay(ctx context.Context, userID, debtID string, amount float64, code currency.Code) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	canonical, err := s.normalizer.ToCanonical(amount, code)
	if err != nil {
		return err
	}

	path := store.Record(store.Debts, userID, debtID)
	return s.store.Transaction(ctx, func(tx *store.Tx) error {
		var debt models.Debt
		if err := tx.Get(ctx, path, &debt); err != nil {
			return err
		}
		payment := &models.DebtPayment{
			DebtID:   debt.ID,
			DebtName: debt.Name,
			Amount:   canonical,
			Date:     s.now(),
		}
		return tx.Apply(store.NewBatch().
			Create(store.Root(store.DebtPayments, userID), payment).
			Increment(path, "paidAmount", canonical))
	})
}

// DeleteDebt removes the debt and all of its payments in one batch, then
// verifies that no payment survived.
func (s *debtService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	payments := store.Root(store.DebtPayments, userID)
	batch := store.NewBatch().
		DeleteWhere(payments, "debtId", debtID).
		Delete(store.Record(store.Debts, userID, debtID))
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}
	return reconcileOrphans(ctx, s.store, payments, "debtId", debtID)
}

// ListPayments returns payments newest first, for one debt or, with an
// empty debtID, for all of them.
func (s *debtService) ListPayments(ctx context.Context, userID, debtID string) ([]models.DebtPayment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	opts := store.ListOptions{OrderBy: "date", Desc: true}
	if debtID != "" {
		if _, err := s.GetDebt(ctx, userID, debtID); err != nil {
			return nil, err
		}
		opts.Where = map[string]any{"debtId": debtID}
	}
	var payments []models.DebtPayment
	if err := s.store.List(ctx, store.Root(store.DebtPayments, userID), &payments, opts); err != nil {
		return nil, err
	}
	return payments, nil
}
