// Package aggregate computes the derived figures shown on the dashboard and
// in reports. Every function is pure: it works on snapshots already loaded
// from the store and never performs I/O.
package aggregate

import (
	"math"
	"sort"
	"time"

	"saveandplay/internal/models"
)

// Dated is any record carrying an amount on a date.
type Dated interface {
	RecordDate() time.Time
	RecordAmount() float64
}

// DatePredicate selects records by date.
type DatePredicate func(time.Time) bool

// Sum adds up every record's amount.
func Sum[T Dated](records []T) float64 {
	var total float64
	for _, r := range records {
		total += r.RecordAmount()
	}
	return total
}

// PeriodSum adds up the amounts of records whose date satisfies pred.
func PeriodSum[T Dated](records []T, pred DatePredicate) float64 {
	var total float64
	for _, r := range records {
		if pred(r.RecordDate()) {
			total += r.RecordAmount()
		}
	}
	return total
}

// SameMonth matches dates in now's calendar month and year, in now's zone.
func SameMonth(now time.Time) DatePredicate {
	return func(t time.Time) bool {
		t = t.In(now.Location())
		return t.Year() == now.Year() && t.Month() == now.Month()
	}
}

// SameDay matches dates on now's calendar day, in now's zone.
func SameDay(now time.Time) DatePredicate {
	return func(t time.Time) bool {
		t = t.In(now.Location())
		return t.Year() == now.Year() && t.YearDay() == now.YearDay()
	}
}

// Within matches dates in the closed interval [start, end].
func Within(start, end time.Time) DatePredicate {
	return func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}
}

// MonthInterval returns the first and last instant of t's calendar month.
func MonthInterval(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PaidThisMonth returns the ids of debts with at least one payment in
// now's calendar month.
func PaidThisMonth(payments []models.DebtPayment, now time.Time) map[string]bool {
	inMonth := SameMonth(now)
	paid := make(map[string]bool)
	for _, p := range payments {
		if inMonth(p.Date) {
			paid[p.DebtID] = true
		}
	}
	return paid
}

// MonthlyDebtCommitment sums the monthly payment of every debt not yet
// paid this calendar month.
func MonthlyDebtCommitment(debts []models.Debt, payments []models.DebtPayment, now time.Time) float64 {
	paid := PaidThisMonth(payments, now)
	var total float64
	for _, d := range debts {
		if !paid[d.ID] {
			total += d.MonthlyPayment
		}
	}
	return total
}

// AvailableBalance is everything earned minus everything saved, repaid and
// spent, minus what is still owed on debts this month.
func AvailableBalance(
	incomes []models.Income,
	contributions []models.Contribution,
	payments []models.DebtPayment,
	expenses []models.Expense,
	debts []models.Debt,
	now time.Time,
) float64 {
	outflow := Sum(contributions) + Sum(payments) + Sum(expenses)
	return Sum(incomes) - outflow - MonthlyDebtCommitment(debts, payments, now)
}

func progressPercent(part, total float64) int {
	if total == 0 {
		return 0
	}
	p := math.Round(part / total * 100)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return int(p)
}

// GoalProgressPercent is saved/total as a whole percentage capped at 100.
// A zero total yields 0.
func GoalProgressPercent(saved, total float64) int { return progressPercent(saved, total) }

// DebtProgressPercent is paid/total, with the same rules as goals.
func DebtProgressPercent(paid, total float64) int { return progressPercent(paid, total) }

// NextDuePayment returns the unpaid debt falling due soonest on or after
// today's day of the month. Equal due days are ordered by id. It returns
// nil when nothing is due for the rest of the month.
func NextDuePayment(debts []models.Debt, payments []models.DebtPayment, today time.Time) *models.Debt {
	paid := PaidThisMonth(payments, today)
	var next *models.Debt
	for i := range debts {
		d := &debts[i]
		if d.DueDate < today.Day() || paid[d.ID] {
			continue
		}
		if next == nil || d.DueDate < next.DueDate || (d.DueDate == next.DueDate && d.ID < next.ID) {
			next = d
		}
	}
	return next
}

// TotalSaved sums saved amounts across goals, archived ones included.
func TotalSaved(goals []models.Goal) float64 {
	var total float64
	for _, g := range goals {
		total += g.SavedAmount
	}
	return total
}

// TotalDebtLoad sums what remains unpaid across debts. Overpaid debts
// reduce the total.
func TotalDebtLoad(debts []models.Debt) float64 {
	var total float64
	for i := range debts {
		total += debts[i].Remaining()
	}
	return total
}

// SavingsPercentage is the share of all-time income that sits in goals.
func SavingsPercentage(totalSaved, totalIncome float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	return totalSaved / totalIncome * 100
}

// MonthFlow is one calendar month of the cash-flow report.
type MonthFlow struct {
	Month        time.Time `json:"month"`
	Income       float64   `json:"income"`
	Expenses     float64   `json:"expenses"`
	DebtPayments float64   `json:"debt_payments"`
}

// CashFlow reports income, expenses and debt payments for the last months
// calendar months ending with now's month, oldest first.
func CashFlow(incomes []models.Income, expenses []models.Expense, payments []models.DebtPayment, now time.Time, months int) []MonthFlow {
	if months <= 0 {
		return nil
	}
	current, _ := MonthInterval(now)
	flows := make([]MonthFlow, 0, months)
	for i := months - 1; i >= 0; i-- {
		start, end := MonthInterval(current.AddDate(0, -i, 0))
		in := Within(start, end)
		flows = append(flows, MonthFlow{
			Month:        start,
			Income:       PeriodSum(incomes, in),
			Expenses:     PeriodSum(expenses, in),
			DebtPayments: PeriodSum(payments, in),
		})
	}
	return flows
}

// Slice is one part of the income distribution.
type Slice struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Income distribution categories.
const (
	SliceSavings   = "savings"
	SliceDebt      = "debt"
	SliceExpenses  = "expenses"
	SliceAvailable = "available"
)

// IncomeDistribution splits the previous calendar month's income into
// savings, debt payments, expenses and what was left. The leftover is
// clamped at zero and empty slices are dropped.
func IncomeDistribution(
	incomes []models.Income,
	contributions []models.Contribution,
	payments []models.DebtPayment,
	expenses []models.Expense,
	now time.Time,
) []Slice {
	thisMonth, _ := MonthInterval(now)
	in := Within(MonthInterval(thisMonth.AddDate(0, -1, 0)))

	income := PeriodSum(incomes, in)
	savings := PeriodSum(contributions, in)
	debt := PeriodSum(payments, in)
	spent := PeriodSum(expenses, in)
	available := math.Max(income-savings-debt-spent, 0)

	var out []Slice
	for _, s := range []Slice{
		{SliceSavings, savings},
		{SliceDebt, debt},
		{SliceExpenses, spent},
		{SliceAvailable, available},
	} {
		if s.Amount > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Report ranges for GoalPerformance.
const (
	RangeLast30Days   = "last-30-days"
	RangeLast3Months  = "last-3-months"
	RangeThisYear     = "this-year"
	RangeAllTime      = "all-time"
	DefaultGoalsShown = 5
)

// RangeStart maps a report range name to its start. Unknown names mean
// all time.
func RangeStart(name string, now time.Time) time.Time {
	switch name {
	case RangeLast30Days:
		return now.AddDate(0, 0, -30)
	case RangeLast3Months:
		return now.AddDate(0, 0, -90)
	case RangeThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}

// GoalPerformance picks up to limit active goals created after since. If
// none qualify it falls back to every active goal. Goals keep their input
// order, oldest first when the input is.
func GoalPerformance(goals []models.Goal, since time.Time, limit int) []models.Goal {
	var active, recent []models.Goal
	for _, g := range goals {
		if g.IsArchived() {
			continue
		}
		active = append(active, g)
		if g.CreatedAt.After(since) {
			recent = append(recent, g)
		}
	}
	chosen := recent
	if len(chosen) == 0 {
		chosen = active
	}
	if limit > 0 && len(chosen) > limit {
		chosen = chosen[:limit]
	}
	return chosen
}

// UpcomingDebts lists unpaid debts still due this month, soonest first.
func UpcomingDebts(debts []models.Debt, payments []models.DebtPayment, today time.Time) []models.Debt {
	paid := PaidThisMonth(payments, today)
	var out []models.Debt
	for _, d := range debts {
		if d.DueDate >= today.Day() && !paid[d.ID] {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDate != out[j].DueDate {
			return out[i].DueDate < out[j].DueDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}
