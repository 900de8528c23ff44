package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
	"saveandplay/internal/pagination"
	"saveandplay/internal/store"
)

func requireUser(userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s is required", field)
	}
	return name, nil
}

func positive(field string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be greater than zero", field)
	}
	return nil
}

// listPage loads one page of records under root, newest first.
func listPage[T any](ctx context.Context, st *store.Store, root store.Path, page pagination.PageRequest) (*pagination.PageResponse[T], error) {
	page.Defaults()

	total, err := st.Count(ctx, root, nil)
	if err != nil {
		return nil, err
	}

	var items []T
	err = st.List(ctx, root, &items, store.ListOptions{
		OrderBy: "date",
		Desc:    true,
		Limit:   page.PageSize,
		Offset:  page.Offset(),
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &result, nil
}

// reconcileOrphans checks that a cascade left no child pointing at parentID
// and removes any that did survive.
func reconcileOrphans(ctx context.Context, st *store.Store, children store.Path, field, parentID string) error {
	n, err := st.Count(ctx, children, map[string]any{field: parentID})
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	logger.Get().Warnw("orphaned records after cascade delete",
		"collection", children.Collection,
		"user_id", children.UserID,
		"parent_id", parentID,
		"count", n,
	)
	return st.Commit(ctx, store.NewBatch().DeleteWhere(children, field, parentID))
}
