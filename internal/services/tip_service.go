package services

import (
	"context"
	"time"

	"saveandplay/internal/logger"
	"saveandplay/internal/models"
	"saveandplay/internal/store"
	"saveandplay/internal/tips"
)

// tipService asks the tip generator for advice based on the user's goals.
type tipService struct {
	store     *store.Store
	generator tips.Generator
}

// NewTipService creates a new TipServicer. A nil generator always yields
// the default tip.
func NewTipService(st *store.Store, generator tips.Generator) TipServicer {
	return &tipService{store: st, generator: generator}
}

// PersonalizedTip returns a tip for the user. Generator failures are
// logged and answered with tips.DefaultTip; only store errors surface.
func (s *tipService) PersonalizedTip(ctx context.Context, userID string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if s.generator == nil {
		return tips.DefaultTip, nil
	}

	var goals []models.Goal
	if err := s.store.List(ctx, store.Root(store.Goals, userID), &goals, store.ListOptions{OrderBy: "deadline"}); err != nil {
		return "", err
	}
	var contributions []models.Contribution
	if err := s.store.List(ctx, store.Root(store.Contributions, userID), &contributions, store.ListOptions{OrderBy: "date", Desc: true}); err != nil {
		return "", err
	}

	req := tips.Request{
		Goals:               make([]tips.Goal, 0, len(goals)),
		ContributionHistory: make([]tips.Contribution, 0, len(contributions)),
	}
	for _, g := range goals {
		req.Goals = append(req.Goals, tips.Goal{
			Name:        g.Name,
			Emoji:       g.Emoji,
			TotalAmount: g.TotalAmount,
			SavedAmount: g.SavedAmount,
			Deadline:    g.Deadline.UTC().Format(time.RFC3339),
		})
	}
	for _, c := range contributions {
		req.ContributionHistory = append(req.ContributionHistory, tips.Contribution{
			GoalName: c.GoalName,
			Amount:   c.Amount,
			Date:     c.Date.UTC().Format(time.RFC3339),
		})
	}

	tip, err := s.generator.Tip(ctx, req)
	if err != nil {
		logger.Get().Warnw("savings tip generator failed", "user_id", userID, "error", err)
		return tips.DefaultTip, nil
	}
	if tip == "" {
		return tips.DefaultTip, nil
	}
	return tip, nil
}
