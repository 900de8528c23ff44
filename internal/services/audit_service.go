package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/logger"
	"saveandplay/internal/models"
	"saveandplay/internal/pagination"
	"saveandplay/internal/store"
)

// auditedCollections are the collections whose changes are recorded.
var auditedCollections = []store.Collection{
	store.Goals,
	store.Contributions,
	store.Debts,
	store.DebtPayments,
	store.Incomes,
	store.Expenses,
	store.IncomeCategories,
	store.ExpenseCategories,
}

// auditService keeps an activity trail of committed store changes.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer. Audit rows are written
// straight to db so that recording never produces store events itself.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Attach subscribes the trail to every audited collection.
func (s *auditService) Attach(st *store.Store) func() {
	detach := make([]func(), 0, len(auditedCollections))
	for _, c := range auditedCollections {
		detach = append(detach, st.Subscribe(store.Path{Collection: c}, s.Record))
	}
	return func() {
		for _, d := range detach {
			d()
		}
	}
}

// Record writes one audit row. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Record(ev store.Event) {
	entry := &models.AuditLog{
		UserID:       ev.Path.UserID,
		Action:       string(ev.Op),
		ResourceType: string(ev.Path.Collection),
		ResourceID:   ev.Path.RecordID,
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", ev.Path.UserID,
			"action", ev.Op,
			"resource_type", ev.Path.Collection,
			"resource_id", ev.Path.RecordID,
		)
	}
}

// ListActivity returns one page of the user's trail, newest first.
func (s *auditService) ListActivity(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.AuditLog
	if err := base.Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(logs, page.Page, page.PageSize, totalItems)
	return &result, nil
}
