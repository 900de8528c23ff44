package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/aggregate"
	"saveandplay/internal/currency"
	"saveandplay/internal/services"
)

// DashboardHandler serves the read-only views: dashboard, reports and tips.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	tipService       services.TipServicer
	userService      services.UserServicer
	normalizer       *currency.Normalizer
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	dashboardService services.DashboardServicer,
	tipService services.TipServicer,
	userService services.UserServicer,
	normalizer *currency.Normalizer,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		tipService:       tipService,
		userService:      userService,
		normalizer:       normalizer,
		now:              time.Now,
	}
}

// SummaryResponse is the dashboard in canonical amounts plus the headline
// figures formatted in the display currency.
type SummaryResponse struct {
	Summary         *services.Summary `json:"summary"`
	DisplayCurrency currency.Code     `json:"display_currency"`
	Formatted       map[string]string `json:"formatted"`
}

// FormatResponse is a formatted amount.
type FormatResponse struct {
	Amount    float64       `json:"amount"`
	Currency  currency.Code `json:"currency"`
	Formatted string        `json:"formatted"`
}

func (h *DashboardHandler) displayCurrency(ctx context.Context, userID string) (currency.Code, error) {
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return currency.Code(user.DisplayCurrency), nil
}

// Summary returns the dashboard figures
// @Summary     Dashboard summary
// @Description Available balance, debt commitment, monthly totals and the next due payment
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SummaryResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	display, err := h.displayCurrency(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.dashboardService.Summary(ctx, userID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Summary:         summary,
		DisplayCurrency: display,
		Formatted: map[string]string{
			"available_balance":       h.normalizer.Format(summary.AvailableBalance, display),
			"monthly_debt_commitment": h.normalizer.Format(summary.MonthlyDebtCommitment, display),
			"income_this_month":       h.normalizer.Format(summary.IncomeThisMonth, display),
			"expenses_this_month":     h.normalizer.Format(summary.ExpensesThisMonth, display),
			"total_saved":             h.normalizer.Format(summary.TotalSaved, display),
			"total_debt_load":         h.normalizer.Format(summary.TotalDebtLoad, display),
		},
	})
}

// Report returns the reports page data
// @Summary     Reports
// @Description Six months of cash flow, last month's income distribution and goal performance
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       range query string false "last-30-days, last-3-months, this-year or all-time"
// @Success     200 {object} services.Report
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Router      /dashboard/report [get]
func (h *DashboardHandler) Report(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var query struct {
		Range string `form:"range" binding:"omitempty,oneof=last-30-days last-3-months this-year all-time"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if query.Range == "" {
		query.Range = aggregate.RangeAllTime
	}

	report, err := h.dashboardService.Report(c.Request.Context(), userID, h.now(), query.Range)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Tip returns a personalized savings tip
// @Summary     Savings tip
// @Description A tip based on the user's goals; a default tip when none is available
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string
// @Router      /tips [get]
func (h *DashboardHandler) Tip(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tip, err := h.tipService.PersonalizedTip(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}

// Format converts a canonical amount and formats it
// @Summary     Format an amount
// @Description Convert a canonical amount to the given currency (default: the user's display currency) and format it
// @Tags        currency
// @Produce     json
// @Security    BearerAuth
// @Param       amount query number true "Canonical amount"
// @Param       currency query string false "USD or DOP"
// @Success     200 {object} FormatResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /currency/format [get]
func (h *DashboardHandler) Format(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var query struct {
		Amount   *float64 `form:"amount" binding:"required"`
		Currency string   `form:"currency" binding:"omitempty,currency"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	code := currency.Code(query.Currency)
	if code == "" {
		if code, err = h.displayCurrency(c.Request.Context(), userID); err != nil {
			respondWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, FormatResponse{
		Amount:    *query.Amount,
		Currency:  code,
		Formatted: h.normalizer.Format(*query.Amount, code),
	})
}
