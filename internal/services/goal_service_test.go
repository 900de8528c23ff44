package services

import (
	"context"
	"testing"
	"time"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
	"saveandplay/internal/store"
	"saveandplay/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()
	deadline := time.Now().AddDate(0, 6, 0)

	t.Run("valid", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(ctx, user.ID, "  Laptop  ", "💻", 1200, deadline)
		testutil.AssertNoError(t, err)

		if goal.ID == "" {
			t.Fatal("expected goal ID")
		}
		if goal.Name != "Laptop" {
			t.Errorf("expected trimmed name, got %q", goal.Name)
		}
		if goal.SavedAmount != 0 || goal.Status != models.GoalStatusActive {
			t.Errorf("expected a fresh active goal, got saved=%v status=%s", goal.SavedAmount, goal.Status)
		}
		if goal.CreatedAt.IsZero() {
			t.Error("expected createdAt to be set")
		}
	})

	t.Run("validation", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(ctx, user.ID, "   ", "", 100, deadline)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(ctx, user.ID, "Trip", "", 0, deadline)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(ctx, user.ID, "Trip", "", -5, deadline)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(ctx, user.ID, "Trip", "", 100, time.Time{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, _, svc := newGoalTestService(t)
		_, err := svc.CreateGoal(ctx, "", "Trip", "", 100, deadline)
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestContribute(t *testing.T) {
	ctx := context.Background()

	t.Run("completing contribution archives the goal once", func(t *testing.T) {
		db, st, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal, err := svc.CreateGoal(ctx, user.ID, "Bike", "🚲", 1000, time.Now().AddDate(0, 1, 0))
		testutil.AssertNoError(t, err)

		completed, err := svc.Contribute(ctx, user.ID, goal.ID, 1000, currency.USD)
		testutil.AssertNoError(t, err)
		if !completed {
			t.Fatal("expected the completing contribution to report true")
		}

		got, err := svc.GetGoal(ctx, user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if got.Status != models.GoalStatusArchived {
			t.Errorf("expected archived, got %s", got.Status)
		}
		if got.SavedAmount != 1000 {
			t.Errorf("expected saved 1000, got %v", got.SavedAmount)
		}

		contributions, err := svc.ListContributions(ctx, user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if len(contributions) != 1 || contributions[0].Amount != 1000 {
			t.Fatalf("expected one contribution of 1000, got %+v", contributions)
		}
		if contributions[0].GoalName != "Bike" {
			t.Errorf("expected goal name snapshot, got %q", contributions[0].GoalName)
		}

		_, err = svc.Contribute(ctx, user.ID, goal.ID, 10, currency.USD)
		testutil.AssertAppError(t, err, "GOAL_ARCHIVED")

		n, err := st.Count(ctx, store.Root(store.Contributions, user.ID), nil)
		testutil.AssertNoError(t, err)
		if n != 1 {
			t.Errorf("rejected contribution must not be written, found %d", n)
		}
	})

	t.Run("partial contributions accumulate", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 300)

		var last float64
		for i, amount := range []float64{100, 50, 100} {
			completed, err := svc.Contribute(ctx, user.ID, goal.ID, amount, currency.USD)
			testutil.AssertNoError(t, err)
			if completed {
				t.Fatalf("contribution %d should not complete the goal", i)
			}
			got, _ := svc.GetGoal(ctx, user.ID, goal.ID)
			if got.SavedAmount < last {
				t.Fatalf("saved amount decreased from %v to %v", last, got.SavedAmount)
			}
			last = got.SavedAmount
		}
		if last != 250 {
			t.Errorf("expected 250 saved, got %v", last)
		}

		completed, err := svc.Contribute(ctx, user.ID, goal.ID, 80, currency.USD)
		testutil.AssertNoError(t, err)
		if !completed {
			t.Error("overshooting the target should complete the goal")
		}
	})

	t.Run("display currency is normalized", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000)

		_, err := svc.Contribute(ctx, user.ID, goal.ID, 5900, currency.DOP)
		testutil.AssertNoError(t, err)

		got, _ := svc.GetGoal(ctx, user.ID, goal.ID)
		if got.SavedAmount < 99.999 || got.SavedAmount > 100.001 {
			t.Errorf("expected about 100 USD saved, got %v", got.SavedAmount)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000)

		_, err := svc.Contribute(ctx, user.ID, goal.ID, 0, currency.USD)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Contribute(ctx, user.ID, goal.ID, 10, currency.Code("EUR"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing goal", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Contribute(ctx, user.ID, "0196b5c2-0000-7000-8000-000000000000", 10, currency.USD)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("another user's goal", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, owner.ID, 1000)

		_, err := svc.Contribute(ctx, intruder.ID, goal.ID, 10, currency.USD)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("goal edited between read and write", func(t *testing.T) {
		db, st, _ := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000)

		// Reads inside the transaction see 0 saved, but the guard checks the
		// row after a concurrent writer has already moved it.
		err := st.Transaction(ctx, func(tx *store.Tx) error {
			var fresh models.Goal
			if err := tx.Get(ctx, store.Record(store.Goals, user.ID, goal.ID), &fresh); err != nil {
				return err
			}
			if err := tx.Apply(store.NewBatch().Increment(store.Record(store.Goals, user.ID, goal.ID), "savedAmount", 5)); err != nil {
				return err
			}
			return tx.Apply(store.NewBatch().UpdateIf(
				store.Record(store.Goals, user.ID, goal.ID),
				map[string]any{"savedAmount": fresh.SavedAmount + 10},
				map[string]any{"status": models.GoalStatusActive, "savedAmount": fresh.SavedAmount},
			))
		})
		testutil.AssertAppError(t, err, "CONCURRENT_UPDATE")
	})
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to contributions", func(t *testing.T) {
		db, st, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000)
		other := testutil.CreateTestGoal(t, db, user.ID, 1000)

		for _, amount := range []float64{10, 20, 30} {
			_, err := svc.Contribute(ctx, user.ID, goal.ID, amount, currency.USD)
			testutil.AssertNoError(t, err)
		}
		_, err := svc.Contribute(ctx, user.ID, other.ID, 40, currency.USD)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteGoal(ctx, user.ID, goal.ID))

		_, err = svc.GetGoal(ctx, user.ID, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		n, err := st.Count(ctx, store.Root(store.Contributions, user.ID), map[string]any{"goalId": goal.ID})
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("expected no contributions left for the goal, got %d", n)
		}

		remaining, err := svc.ListContributions(ctx, user.ID, "")
		testutil.AssertNoError(t, err)
		if len(remaining) != 1 || remaining[0].GoalID != other.ID {
			t.Errorf("other goal's contributions must survive, got %+v", remaining)
		}
	})

	t.Run("missing goal deletes nothing", func(t *testing.T) {
		db, st, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 1000)
		// An orphan pointing at a goal id that does not exist.
		orphan := &models.Goal{Base: models.Base{ID: "0196b5c2-0000-7000-8000-0000000000aa"}, Owned: models.Owned{UserID: user.ID}}
		testutil.CreateTestContribution(t, db, orphan, 5, time.Now())
		testutil.CreateTestContribution(t, db, goal, 5, time.Now())

		err := svc.DeleteGoal(ctx, user.ID, orphan.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		n, _ := st.Count(ctx, store.Root(store.Contributions, user.ID), nil)
		if n != 2 {
			t.Errorf("failed delete must roll back the cascade, found %d contributions", n)
		}
	})
}

func TestReconcileOrphans(t *testing.T) {
	ctx := context.Background()
	db, st := setupStore(t)
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID, 100)
	testutil.CreateTestContribution(t, db, goal, 5, time.Now())
	testutil.CreateTestContribution(t, db, goal, 6, time.Now())

	root := store.Root(store.Contributions, user.ID)
	testutil.AssertNoError(t, reconcileOrphans(ctx, st, root, "goalId", goal.ID))

	n, _ := st.Count(ctx, root, nil)
	if n != 0 {
		t.Errorf("expected leftovers to be removed, found %d", n)
	}
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("edits fields", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 500)
		deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

		got, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdate{
			Name:        ptr("Car"),
			TotalAmount: ptr(900.0),
			Deadline:    &deadline,
		})
		testutil.AssertNoError(t, err)
		if got.Name != "Car" || got.TotalAmount != 900 || !got.Deadline.Equal(deadline) {
			t.Errorf("unexpected goal after update: %+v", got)
		}
	})

	t.Run("target must stay above saved", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 500)
		_, err := svc.Contribute(ctx, user.ID, goal.ID, 200, currency.USD)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdate{TotalAmount: ptr(200.0)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("archived goals are frozen", func(t *testing.T) {
		db, _, svc := newGoalTestService(t)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 50)
		_, err := svc.Contribute(ctx, user.ID, goal.ID, 50, currency.USD)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateGoal(ctx, user.ID, goal.ID, GoalUpdate{Name: ptr("Again")})
		testutil.AssertAppError(t, err, "GOAL_ARCHIVED")
	})
}

func TestListGoals(t *testing.T) {
	ctx := context.Background()
	db, _, svc := newGoalTestService(t)
	user := testutil.CreateTestUser(t, db)
	done := testutil.CreateTestGoal(t, db, user.ID, 10)
	testutil.CreateTestGoal(t, db, user.ID, 1000)
	_, err := svc.Contribute(ctx, user.ID, done.ID, 10, currency.USD)
	testutil.AssertNoError(t, err)

	all, err := svc.ListGoals(ctx, user.ID, nil)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 goals, got %d", len(all))
	}

	archived := models.GoalStatusArchived
	only, err := svc.ListGoals(ctx, user.ID, &archived)
	testutil.AssertNoError(t, err)
	if len(only) != 1 || only[0].ID != done.ID {
		t.Errorf("expected only the archived goal, got %+v", only)
	}
}
