package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/currency"
	apperrors "saveandplay/internal/errors"
	"saveandplay/internal/export"
	"saveandplay/internal/logger"
	"saveandplay/internal/services"
)

// ExportHandler streams the user's data as a spreadsheet.
type ExportHandler struct {
	dashboardService services.DashboardServicer
	userService      services.UserServicer
	normalizer       *currency.Normalizer
	now              func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(dashboardService services.DashboardServicer, userService services.UserServicer, normalizer *currency.Normalizer) *ExportHandler {
	return &ExportHandler{
		dashboardService: dashboardService,
		userService:      userService,
		normalizer:       normalizer,
		now:              time.Now,
	}
}

// Export writes every collection to an Excel workbook. Errors are attached
// to the context and rendered by the error middleware.
// @Summary     Export data
// @Description Download goals, contributions, debts, payments, incomes and expenses as an .xlsx workbook
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Success     200 {file} file
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	snap, err := h.dashboardService.Snapshot(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	f, err := export.Workbook(export.Data{
		Goals:         snap.Goals,
		Contributions: snap.Contributions,
		Debts:         snap.Debts,
		DebtPayments:  snap.DebtPayments,
		Incomes:       snap.Incomes,
		Expenses:      snap.Expenses,
	}, h.normalizer, currency.Code(user.DisplayCurrency))
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Get().Warnw("closing export workbook", "error", err)
		}
	}()

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	if err := f.Write(c.Writer); err != nil {
		logger.Get().Errorw("writing export workbook", "user_id", userID, "error", err)
	}
}
