package services

import (
	"context"
	"errors"
	"time"

	"saveandplay/internal/currency"
	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
	"saveandplay/internal/models"
	"saveandplay/internal/store"
)

// goalService handles savings goals and their contributions.
type goalService struct {
	store      *store.Store
	normalizer *currency.Normalizer
	now        func() time.Time
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(st *store.Store, normalizer *currency.Normalizer) GoalServicer {
	return &goalService{store: st, normalizer: normalizer, now: time.Now}
}

// CreateGoal creates an active goal with nothing saved.
func (s *goalService) CreateGoal(ctx context.Context, userID, name, emoji string, totalAmount float64, deadline time.Time) (*models.Goal, error) {
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
	if deadline.IsZero() {
		return nil, invalid("deadline is required")
	}

	goal := &models.Goal{
		Name:        name,
		Emoji:       emoji,
		TotalAmount: totalAmount,
		SavedAmount: 0,
		Deadline:    deadline,
		Status:      models.GoalStatusActive,
	}
	if err := s.store.Commit(ctx, store.NewBatch().Create(store.Root(store.Goals, userID), goal)); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal returns one goal.
func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var goal models.Goal
	if err := s.store.Get(ctx, store.Record(store.Goals, userID, goalID), &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns the user's goals by deadline, optionally only those in
// one status.
func (s *goalService) ListGoals(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	opts := store.ListOptions{OrderBy: "deadline"}
	if status != nil {
		opts.Where = map[string]any{"status": *status}
	}
	var goals []models.Goal
	if err := s.store.List(ctx, store.Root(store.Goals, userID), &goals, opts); err != nil {
		return nil, err
	}
	return goals, nil
}

// UpdateGoal edits an active goal. The target may not drop to or below the
// amount already saved, since that would complete the goal without a
// contribution.
func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.IsArchived() {
		return nil, apperrors.WithMessage(apperrors.ErrGoalArchived, "Cannot edit an archived goal")
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
		if *update.TotalAmount <= goal.SavedAmount {
			return nil, invalid("total amount must stay above the %.2f already saved", goal.SavedAmount)
		}
		fields["totalAmount"] = *update.TotalAmount
	}
	if update.Deadline != nil {
		if update.Deadline.IsZero() {
			return nil, invalid("deadline is required")
		}
		fields["deadline"] = *update.Deadline
	}
	if len(fields) == 0 {
		return goal, nil
	}

	guard := map[string]any{"status": models.GoalStatusActive, "savedAmount": goal.SavedAmount}
	path := store.Record(store.Goals, userID, goalID)
	if err := s.store.Commit(ctx, store.NewBatch().UpdateIf(path, fields, guard)); err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, userID, goalID)
}

// Contribute adds amount, entered in code, to the goal. It reports true
// only for the call that moves the goal from active to archived.
//
// The goal is re-read inside the transaction and the update is guarded on
// the values that were read, so two contributions racing for the same
// goal cannot both complete it or lose each other's amounts.
func (s *goalService) Contribute(ctx context.Context, userID, goalID string, amount float64, code currency.Code) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	canonical, err := s.normalizer.ToCanonical(amount, code)
	if err != nil {
		return false, err
	}

	path := store.Record(store.Goals, userID, goalID)
	var completed bool
	err = s.store.Transaction(ctx, func(tx *store.Tx) error {
		var goal models.Goal
		if err := tx.Get(ctx, path, &goal); err != nil {
			return err
		}
		if goal.IsArchived() {
			return apperrors.ErrGoalArchived
		}

		saved := goal.SavedAmount + canonical
		reached := saved >= goal.TotalAmount
		fields := map[string]any{"savedAmount": saved}
		if reached {
			fields["status"] = models.GoalStatusArchived
		}

		contribution := &models.Contribution{
			GoalID:   goal.ID,
			GoalName: goal.Name,
			Amount:   canonical,
			Date:     s.now(),
		}
		batch := store.NewBatch().
			Create(store.Root(store.Contributions, userID), contribution).
			UpdateIf(path, fields, map[string]any{
				"status":      models.GoalStatusActive,
				"savedAmount": goal.SavedAmount,
			})
		if err := tx.Apply(batch); err != nil {
			return err
		}
		completed = reached
		return nil
	})
	if errors.Is(err, apperrors.ErrConcurrentUpdate) {
		if goal, getErr := s.GetGoal(ctx, userID, goalID); getErr == nil && goal.IsArchived() {
			return false, apperrors.ErrGoalArchived
		}
	}
	if err != nil {
		return false, err
	}

	if completed {
		logger.Get().Infow("goal completed", "user_id", userID, "goal_id", goalID)
	}
	return completed, nil
}

// DeleteGoal removes the goal and every contribution to it in one batch,
// then verifies that no contribution survived.
func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	contributions := store.Root(store.Contributions, userID)
	batch := store.NewBatch().
		DeleteWhere(contributions, "goalId", goalID).
		Delete(store.Record(store.Goals, userID, goalID))
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}
	return reconcileOrphans(ctx, s.store, contributions, "goalId", goalID)
}

// ListContributions returns contributions newest first, for one goal or,
// with an empty goalID, for all of them.
func (s *goalService) ListContributions(ctx context.Context, userID, goalID string) ([]models.Contribution, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	opts := store.ListOptions{OrderBy: "date", Desc: true}
	if goalID != "" {
		if _, err := s.GetGoal(ctx, userID, goalID); err != nil {
			return nil, err
		}
		opts.Where = map[string]any{"goalId": goalID}
	}
	var contributions []models.Contribution
	if err := s.store.List(ctx, store.Root(store.Contributions, userID), &contributions, opts); err != nil {
		return nil, err
	}
	return contributions, nil
}
