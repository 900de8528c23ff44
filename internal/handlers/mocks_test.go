package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
	"saveandplay/internal/pagination"
	"saveandplay/internal/services"
	"saveandplay/internal/store"
)

// --- user ---

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) SetDisplayCurrency(ctx context.Context, userID string, code currency.Code) (*models.User, error) {
	args := m.Called(ctx, userID, code)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- goals ---

type mockGoalService struct{ mock.Mock }

func (m *mockGoalService) CreateGoal(ctx context.Context, userID, name, emoji string, totalAmount float64, deadline time.Time) (*models.Goal, error) {
	args := m.Called(ctx, userID, name, emoji, totalAmount, deadline)
	goal, _ := args.Get(0).(*models.Goal)
	return goal, args.Error(1)
}

func (m *mockGoalService) GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	args := m.Called(ctx, userID, goalID)
	goal, _ := args.Get(0).(*models.Goal)
	return goal, args.Error(1)
}

func (m *mockGoalService) ListGoals(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error) {
	args := m.Called(ctx, userID, status)
	goals, _ := args.Get(0).([]models.Goal)
	return goals, args.Error(1)
}

func (m *mockGoalService) UpdateGoal(ctx context.Context, userID, goalID string, update services.GoalUpdate) (*models.Goal, error) {
	args := m.Called(ctx, userID, goalID, update)
	goal, _ := args.Get(0).(*models.Goal)
	return goal, args.Error(1)
}

func (m *mockGoalService) Contribute(ctx context.Context, userID, goalID string, amount float64, code currency.Code) (bool, error) {
	args := m.Called(ctx, userID, goalID, amount, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockGoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return m.Called(ctx, userID, goalID).Error(0)
}

func (m *mockGoalService) ListContributions(ctx context.Context, userID, goalID string) ([]models.Contribution, error) {
	args := m.Called(ctx, userID, goalID)
	list, _ := args.Get(0).([]models.Contribution)
	return list, args.Error(1)
}

var _ services.GoalServicer = (*mockGoalService)(nil)

// --- debts ---

type mockDebtService struct{ mock.Mock }

func (m *mockDebtService) CreateDebt(ctx context.Context, userID, name, emoji string, totalAmount, monthlyPayment float64, dueDate int) (*models.Debt, error) {
	args := m.Called(ctx, userID, name, emoji, totalAmount, monthlyPayment, dueDate)
	debt, _ := args.Get(0).(*models.Debt)
	return debt, args.Error(1)
}

func (m *mockDebtService) GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	debt, _ := args.Get(0).(*models.Debt)
	return debt, args.Error(1)
}

func (m *mockDebtService) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	args := m.Called(ctx, userID)
	debts, _ := args.Get(0).([]models.Debt)
	return debts, args.Error(1)
}

func (m *mockDebtService) UpdateDebt(ctx context.Context, userID, debtID string, update services.DebtUpdate) (*models.Debt, error) {
	args := m.Called(ctx, userID, debtID, update)
	debt, _ := args.Get(0).(*models.Debt)
	return debt, args.Error(1)
}

func (m *mockDebtService) Pay(ctx context.Context, userID, debtID string, amount float64, code currency.Code) error {
	return m.Called(ctx, userID, debtID, amount, code).Error(0)
}

func (m *mockDebtService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	return m.Called(ctx, userID, debtID).Error(0)
}

func (m *mockDebtService) ListPayments(ctx context.Context, userID, debtID string) ([]models.DebtPayment, error) {
	args := m.Called(ctx, userID, debtID)
	list, _ := args.Get(0).([]models.DebtPayment)
	return list, args.Error(1)
}

var _ services.DebtServicer = (*mockDebtService)(nil)

// --- ledger ---

type mockLedgerService struct{ mock.Mock }

func (m *mockLedgerService) CreateIncome(ctx context.Context, userID string, in services.EntryInput) (*models.Income, error) {
	args := m.Called(ctx, userID, in)
	v, _ := args.Get(0).(*models.Income)
	return v, args.Error(1)
}

func (m *mockLedgerService) UpdateIncome(ctx context.Context, userID, incomeID string, in services.EntryInput) (*models.Income, error) {
	args := m.Called(ctx, userID, incomeID, in)
	v, _ := args.Get(0).(*models.Income)
	return v, args.Error(1)
}

func (m *mockLedgerService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	return m.Called(ctx, userID, incomeID).Error(0)
}

func (m *mockLedgerService) ListIncomes(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	args := m.Called(ctx, userID, page)
	v, _ := args.Get(0).(*pagination.PageResponse[models.Income])
	return v, args.Error(1)
}

func (m *mockLedgerService) CreateExpense(ctx context.Context, userID string, in services.EntryInput) (*models.Expense, error) {
	args := m.Called(ctx, userID, in)
	v, _ := args.Get(0).(*models.Expense)
	return v, args.Error(1)
}

func (m *mockLedgerService) UpdateExpense(ctx context.Context, userID, expenseID string, in services.EntryInput) (*models.Expense, error) {
	args := m.Called(ctx, userID, expenseID, in)
	v, _ := args.Get(0).(*models.Expense)
	return v, args.Error(1)
}

func (m *mockLedgerService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	return m.Called(ctx, userID, expenseID).Error(0)
}

func (m *mockLedgerService) ListExpenses(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	args := m.Called(ctx, userID, page)
	v, _ := args.Get(0).(*pagination.PageResponse[models.Expense])
	return v, args.Error(1)
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- categories ---

type mockCategoryService struct{ mock.Mock }

func (m *mockCategoryService) CreateCategory(ctx context.Context, userID string, kind models.CategoryKind, name, emoji string) (*models.Category, error) {
	args := m.Called(ctx, userID, kind, name, emoji)
	v, _ := args.Get(0).(*models.Category)
	return v, args.Error(1)
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID, name, emoji string) (*models.Category, error) {
	args := m.Called(ctx, userID, kind, categoryID, name, emoji)
	v, _ := args.Get(0).(*models.Category)
	return v, args.Error(1)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID string) error {
	return m.Called(ctx, userID, kind, categoryID).Error(0)
}

func (m *mockCategoryService) ListCategories(ctx context.Context, userID string, kind models.CategoryKind) ([]models.Category, error) {
	args := m.Called(ctx, userID, kind)
	v, _ := args.Get(0).([]models.Category)
	return v, args.Error(1)
}

func (m *mockCategoryService) Reorder(ctx context.Context, userID string, kind models.CategoryKind, from, to int) error {
	return m.Called(ctx, userID, kind, from, to).Error(0)
}

func (m *mockCategoryService) SeedDefaults(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCategoryService) Details(ctx context.Context, userID string, kind models.CategoryKind, name string) (services.CategoryDetails, error) {
	args := m.Called(ctx, userID, kind, name)
	v, _ := args.Get(0).(services.CategoryDetails)
	return v, args.Error(1)
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- dashboard, tips, audit ---

type mockDashboardService struct{ mock.Mock }

func (m *mockDashboardService) Snapshot(ctx context.Context, userID string) (*services.Snapshot, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*services.Snapshot)
	return v, args.Error(1)
}

func (m *mockDashboardService) Summary(ctx context.Context, userID string, now time.Time) (*services.Summary, error) {
	args := m.Called(ctx, userID, now)
	v, _ := args.Get(0).(*services.Summary)
	return v, args.Error(1)
}

func (m *mockDashboardService) Report(ctx context.Context, userID string, now time.Time, rangeName string) (*services.Report, error) {
	args := m.Called(ctx, userID, now, rangeName)
	v, _ := args.Get(0).(*services.Report)
	return v, args.Error(1)
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

type mockTipService struct{ mock.Mock }

func (m *mockTipService) PersonalizedTip(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

var _ services.TipServicer = (*mockTipService)(nil)

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) Attach(st *store.Store) func() {
	m.Called(st)
	return func() {}
}

func (m *mockAuditService) Record(ev store.Event) { m.Called(ev) }

func (m *mockAuditService) ListActivity(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	args := m.Called(ctx, userID, page)
	v, _ := args.Get(0).(*pagination.PageResponse[models.AuditLog])
	return v, args.Error(1)
}

var _ services.AuditServicer = (*mockAuditService)(nil)
