package services

import (
	"context"
	"testing"
	"time"

	"saveandplay/internal/currency"
	"saveandplay/internal/pagination"
	"saveandplay/internal/store"
	"saveandplay/internal/testutil"
)

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	db, st := setupStore(t)
	user := testutil.CreateTestUser(t, db)
	audit := NewAuditService(db)
	detach := audit.Attach(st)
	defer detach()

	goals := NewGoalService(st, currency.Default())
	goal, err := goals.CreateGoal(ctx, user.ID, "Viaje", "✈️", 100, time.Now().AddDate(0, 2, 0))
	testutil.AssertNoError(t, err)
	_, err = goals.Contribute(ctx, user.ID, goal.ID, 10, currency.USD)
	testutil.AssertNoError(t, err)

	page, err := audit.ListActivity(ctx, user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	// goal created, contribution created, goal updated
	if page.TotalItems != 3 {
		t.Fatalf("expected 3 audit entries, got %d: %+v", page.TotalItems, page.Data)
	}

	seen := map[string]int{}
	for _, entry := range page.Data {
		if entry.UserID != user.ID {
			t.Errorf("entry recorded for wrong user: %s", entry.UserID)
		}
		seen[entry.ResourceType+"/"+entry.Action]++
	}
	if seen["goals/created"] != 1 || seen["contributions/created"] != 1 || seen["goals/updated"] != 1 {
		t.Errorf("unexpected audit entries: %v", seen)
	}

	detach()
	testutil.AssertNoError(t, goals.DeleteGoal(ctx, user.ID, goal.ID))
	page, _ = audit.ListActivity(ctx, user.ID, pagination.PageRequest{})
	if page.TotalItems != 3 {
		t.Errorf("detached trail kept recording: %d entries", page.TotalItems)
	}
}

func TestAuditRecordIgnoresUsersCollection(t *testing.T) {
	ctx := context.Background()
	db, st := setupStore(t)
	audit := NewAuditService(db)
	defer audit.Attach(st)()

	users := NewUserService(st, nil)
	user, err := users.Register(ctx, "trail@example.com", "secret123")
	testutil.AssertNoError(t, err)

	page, err := audit.ListActivity(ctx, user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 0 {
		t.Errorf("user records are not audited, got %d entries", page.TotalItems)
	}

	audit.Record(store.Event{Path: store.Record(store.Goals, user.ID, "0196b5c2-0000-7000-8000-000000000001"), Op: store.Deleted})
	page, _ = audit.ListActivity(ctx, user.ID, pagination.PageRequest{})
	if page.TotalItems != 1 || page.Data[0].Action != "deleted" {
		t.Errorf("expected one manual entry, got %+v", page.Data)
	}
}
