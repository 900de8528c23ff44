package services

import (
	"context"
	"time"

	"saveandplay/internal/aggregate"
	"saveandplay/internal/currency"
	"saveandplay/internal/models"
	"saveandplay/internal/pagination"
	"saveandplay/internal/store"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	SetDisplayCurrency(ctx context.Context, userID string, code currency.Code) (*models.User, error)
}

// GoalUpdate carries the editable goal fields; nil means unchanged.
type GoalUpdate struct {
	Name        *string
	Emoji       *string
	TotalAmount *float64
	Deadline    *time.Time
}

// GoalServicer defines the contract for savings goals and contributions.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID, name, emoji string, totalAmount float64, deadline time.Time) (*models.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, update GoalUpdate) (*models.Goal, error)
	Contribute(ctx context.Context, userID, goalID string, amount float64, code currency.Code) (completed bool, err error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	ListContributions(ctx context.Context, userID, goalID string) ([]models.Contribution, error)
}

// DebtUpdate carries the editable debt fields; nil means unchanged.
type DebtUpdate struct {
	Name           *string
	Emoji          *string
	TotalAmount    *float64
	MonthlyPayment *float64
	DueDate        *int
}

// DebtServicer defines the contract for debts and their payments.
type DebtServicer interface {
	CreateDebt(ctx context.Context, userID, name, emoji string, totalAmount, monthlyPayment float64, dueDate int) (*models.Debt, error)
	GetDebt(ctx context.Context, userID, debtID string) (*models.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]models.Debt, error)
	UpdateDebt(ctx context.Context, userID, debtID string, update DebtUpdate) (*models.Debt, error)
	Pay(ctx context.Context, userID, debtID string, amount float64, code currency.Code) error
	DeleteDebt(ctx context.Context, userID, debtID string) error
	ListPayments(ctx context.Context, userID, debtID string) ([]models.DebtPayment, error)
}

// EntryInput is an income or expense as the user entered it.
type EntryInput struct {
	Type        string
	Amount      float64
	Currency    currency.Code
	Date        time.Time
	Description string
}

// LedgerServicer defines the contract for incomes and expenses.
type LedgerServicer interface {
	CreateIncome(ctx context.Context, userID string, in EntryInput) (*models.Income, error)
	UpdateIncome(ctx context.Context, userID, incomeID string, in EntryInput) (*models.Income, error)
	DeleteIncome(ctx context.Context, userID, incomeID string) error
	ListIncomes(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)

	CreateExpense(ctx context.Context, userID string, in EntryInput) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, in EntryInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	ListExpenses(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// CategoryDetails is how an entry's category is displayed.
type CategoryDetails struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// CategoryServicer defines the contract for income and expense categories.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID string, kind models.CategoryKind, name, emoji string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID, name, emoji string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID string) error
	ListCategories(ctx context.Context, userID string, kind models.CategoryKind) ([]models.Category, error)
	Reorder(ctx context.Context, userID string, kind models.CategoryKind, from, to int) error
	SeedDefaults(ctx context.Context, userID string) error
	Details(ctx context.Context, userID string, kind models.CategoryKind, name string) (CategoryDetails, error)
}

// Snapshot is every collection of one user, loaded together.
type Snapshot struct {
	Goals         []models.Goal
	Contributions []models.Contribution
	Debts         []models.Debt
	DebtPayments  []models.DebtPayment
	Incomes       []models.Income
	Expenses      []models.Expense
}

// Summary is the dashboard's headline figures, in the canonical currency.
type Summary struct {
	AvailableBalance      float64               `json:"available_balance"`
	MonthlyDebtCommitment float64               `json:"monthly_debt_commitment"`
	IncomeThisMonth       float64               `json:"income_this_month"`
	IncomeToday           float64               `json:"income_today"`
	ExpensesThisMonth     float64               `json:"expenses_this_month"`
	TotalSaved            float64               `json:"total_saved"`
	TotalDebtLoad         float64               `json:"total_debt_load"`
	SavingsPercentage     float64               `json:"savings_percentage"`
	NextDuePayment        *models.Debt          `json:"next_due_payment"`
	RecentContributions   []models.Contribution `json:"recent_contributions"`
}

// Report is the data behind the reports page.
type Report struct {
	CashFlow           []aggregate.MonthFlow `json:"cash_flow"`
	IncomeDistribution []aggregate.Slice     `json:"income_distribution"`
	GoalPerformance    []GoalProgress        `json:"goal_performance"`
}

// GoalProgress pairs a goal with its completion percentage.
type GoalProgress struct {
	Goal    models.Goal `json:"goal"`
	Percent int         `json:"percent"`
}

// DashboardServicer defines the contract for the read-only aggregates.
type DashboardServicer interface {
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
	Summary(ctx context.Context, userID string, now time.Time) (*Summary, error)
	Report(ctx context.Context, userID string, now time.Time, rangeName string) (*Report, error)
}

// TipServicer produces a savings tip for the user.
type TipServicer interface {
	PersonalizedTip(ctx context.Context, userID string) (string, error)
}

// AuditServicer records committed store changes and lists them back.
type AuditServicer interface {
	Attach(st *store.Store) (detach func())
	Record(ev store.Event)
	ListActivity(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
