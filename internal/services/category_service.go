package services

import (
	"context"

	"saveandplay/internal/models"
	"saveandplay/internal/store"
)

type categoryDefault struct {
	name  string
	emoji string
}

var defaultCategories = map[models.CategoryKind][]categoryDefault{
	models.CategoryKindIncome: {
		{"Salario", "💼"},
		{"Ingreso Extra", "🎁"},
		{"Regalo", "🎉"},
		{"Venta", "🏷️"},
	},
	models.CategoryKindExpense: {
		{"Comida", "🍔"},
		{"Vivienda/Renta", "🏡"},
		{"Ocio", "🕹️"},
		{"Transporte", "🚌"},
		{"Salud", "❤️‍🩹"},
		{"Servicios", "💡"},
		{"Otro", "🤷"},
	},
}

var fallbackEmoji = map[models.CategoryKind]string{
	models.CategoryKindIncome:  "💰",
	models.CategoryKindExpense: "💸",
}

// categoryService handles income and expense categories.
type categoryService struct {
	store *store.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(st *store.Store) CategoryServicer {
	return &categoryService{store: st}
}

func categoryRoot(userID string, kind models.CategoryKind) (store.Path, error) {
	if err := requireUser(userID); err != nil {
		return store.Path{}, err
	}
	switch kind {
	case models.CategoryKindIncome:
		return store.Root(store.IncomeCategories, userID), nil
	case models.CategoryKindExpense:
		return store.Root(store.ExpenseCategories, userID), nil
	}
	return store.Path{}, invalid("category kind must be income or expense")
}

func categoryPath(userID string, kind models.CategoryKind, categoryID string) (store.Path, error) {
	root, err := categoryRoot(userID, kind)
	if err != nil {
		return store.Path{}, err
	}
	root.RecordID = categoryID
	return root, nil
}

// CreateCategory appends a category after the existing ones.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, kind models.CategoryKind, name, emoji string) (*models.Category, error) {
	root, err := categoryRoot(userID, kind)
	if err != nil {
		return nil, err
	}
	name, err = cleanName("name", name)
	if err != nil {
		return nil, err
	}

	var category *models.Category
	err = s.store.Transaction(ctx, func(tx *store.Tx) error {
		var last []models.Category
		if err := tx.List(ctx, root, &last, store.ListOptions{OrderBy: "order", Desc: true, Limit: 1}); err != nil {
			return err
		}
		order := 0
		if len(last) > 0 {
			order = last[0].Order + 1
		}
		category = &models.Category{Name: name, Emoji: emoji, Order: order}
		return tx.Apply(store.NewBatch().Create(root, category))
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category or changes its emoji. Entries keep the
// name they were recorded with.
func (s *categoryService) UpdateCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID, name, emoji string) (*models.Category, error) {
	path, err := categoryPath(userID, kind, categoryID)
	if err != nil {
		return nil, err
	}
	name, err = cleanName("name", name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(ctx, store.NewBatch().Update(path, map[string]any{"name": name, "emoji": emoji})); err != nil {
		return nil, err
	}
	var category models.Category
	if err := s.store.Get(ctx, path, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category.
func (s *categoryService) DeleteCategory(ctx context.Context, userID string, kind models.CategoryKind, categoryID string) error {
	path, err := categoryPath(userID, kind, categoryID)
	if err != nil {
		return err
	}
	return s.store.Commit(ctx, store.NewBatch().Delete(path))
}

// ListCategories returns categories in display order.
func (s *categoryService) ListCategories(ctx context.Context, userID string, kind models.CategoryKind) ([]models.Category, error) {
	root, err := categoryRoot(userID, kind)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := s.store.List(ctx, root, &categories, store.ListOptions{OrderBy: "order"}); err != nil {
		return nil, err
	}
	return categories, nil
}

// Reorder moves the category at position from to position to, and the one
// there to from. A target outside the list is ignored. Stored orders are
// rewritten to match positions so that gaps left by deletes close up.
func (s *categoryService) Reorder(ctx context.Context, userID string, kind models.CategoryKind, from, to int) error {
	root, err := categoryRoot(userID, kind)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *store.Tx) error {
		var categories []models.Category
		if err := tx.List(ctx, root, &categories, store.ListOptions{OrderBy: "order"}); err != nil {
			return err
		}
		if from < 0 || from >= len(categories) {
			return invalid("no category at position %d", from)
		}
		if to < 0 || to >= len(categories) || to == from {
			return nil
		}
		categories[from], categories[to] = categories[to], categories[from]

		batch := store.NewBatch()
		for i, c := range categories {
			if c.Order == i {
				continue
			}
			path := root
			path.RecordID = c.ID
			batch.Update(path, map[string]any{"order": i})
		}
		return tx.Apply(batch)
	})
}

// SeedDefaults installs the default categories the first time it runs for
// a user. Kinds the user already populated are left alone.
func (s *categoryService) SeedDefaults(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	userPath := store.Path{Collection: store.Users, UserID: userID}
	return s.store.Transaction(ctx, func(tx *store.Tx) error {
		var user models.User
		if err := tx.Get(ctx, userPath, &user); err != nil {
			return err
		}
		if user.CategoriesSeeded {
			return nil
		}

		batch := store.NewBatch()
		for _, kind := range []models.CategoryKind{models.CategoryKindIncome, models.CategoryKindExpense} {
			root, err := categoryRoot(userID, kind)
			if err != nil {
				return err
			}
			n, err := tx.Count(ctx, root, nil)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			for i, d := range defaultCategories[kind] {
				batch.Create(root, &models.Category{Name: d.name, Emoji: d.emoji, Order: i})
			}
		}
		batch.UpdateIf(userPath,
			map[string]any{"categoriesSeeded": true},
			map[string]any{"categoriesSeeded": false})
		return tx.Apply(batch)
	})
}

// Details returns how an entry recorded under name should be shown.
// Unknown names keep their text and get the kind's fallback emoji.
func (s *categoryService) Details(ctx context.Context, userID string, kind models.CategoryKind, name string) (CategoryDetails, error) {
	categories, err := s.ListCategories(ctx, userID, kind)
	if err != nil {
		return CategoryDetails{}, err
	}
	for _, c := range categories {
		if c.Name == name && c.Emoji != "" {
			return CategoryDetails{Label: c.Name, Emoji: c.Emoji}, nil
		}
	}
	return CategoryDetails{Label: name, Emoji: fallbackEmoji[kind]}, nil
}
