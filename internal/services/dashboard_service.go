package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"saveandplay/internal/aggregate"
	"saveandplay/internal/store"
)

const (
	recentContributions = 5
	cashFlowMonths      = 6
)

// dashboardService assembles read-only aggregates from a user's snapshot.
type dashboardService struct {
	store *store.Store
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(st *store.Store) DashboardServicer {
	return &dashboardService{store: st}
}

// Snapshot loads every collection the aggregates need, concurrently.
func (s *dashboardService) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)
	load := func(c store.Collection, dst any, orderBy string) {
		g.Go(func() error {
			return s.store.List(ctx, store.Root(c, userID), dst, store.ListOptions{OrderBy: orderBy, Desc: orderBy == "date"})
		})
	}
	load(store.Goals, &snap.Goals, "createdAt")
	load(store.Contributions, &snap.Contributions, "date")
	load(store.Debts, &snap.Debts, "dueDate")
	load(store.DebtPayments, &snap.DebtPayments, "date")
	load(store.Incomes, &snap.Incomes, "date")
	load(store.Expenses, &snap.Expenses, "date")
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Summary computes the dashboard figures as of now.
func (s *dashboardService) Summary(ctx context.Context, userID string, now time.Time) (*Summary, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	thisMonth := aggregate.SameMonth(now)
	totalSaved := aggregate.TotalSaved(snap.Goals)

	recent := snap.Contributions
	if len(recent) > recentContributions {
		recent = recent[:recentContributions]
	}

	return &Summary{
		AvailableBalance:      aggregate.AvailableBalance(snap.Incomes, snap.Contributions, snap.DebtPayments, snap.Expenses, snap.Debts, now),
		MonthlyDebtCommitment: aggregate.MonthlyDebtCommitment(snap.Debts, snap.DebtPayments, now),
		IncomeThisMonth:       aggregate.PeriodSum(snap.Incomes, thisMonth),
		IncomeToday:           aggregate.PeriodSum(snap.Incomes, aggregate.SameDay(now)),
		ExpensesThisMonth:     aggregate.PeriodSum(snap.Expenses, thisMonth),
		TotalSaved:            totalSaved,
		TotalDebtLoad:         aggregate.TotalDebtLoad(snap.Debts),
		SavingsPercentage:     aggregate.SavingsPercentage(totalSaved, aggregate.Sum(snap.Incomes)),
		NextDuePayment:        aggregate.NextDuePayment(snap.Debts, snap.DebtPayments, now),
		RecentContributions:   recent,
	}, nil
}

// Report computes the reports page for the named range.
func (s *dashboardService) Report(ctx context.Context, userID string, now time.Time, rangeName string) (*Report, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals := aggregate.GoalPerformance(snap.Goals, aggregate.RangeStart(rangeName, now), aggregate.DefaultGoalsShown)
	performance := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		performance = append(performance, GoalProgress{
			Goal:    g,
			Percent: aggregate.GoalProgressPercent(g.SavedAmount, g.TotalAmount),
		})
	}

	return &Report{
		CashFlow:           aggregate.CashFlow(snap.Incomes, snap.Expenses, snap.DebtPayments, now, cashFlowMonths),
		IncomeDistribution: aggregate.IncomeDistribution(snap.Incomes, snap.Contributions, snap.DebtPayments, snap.Expenses, now),
		GoalPerformance:    performance,
	}, nil
}
