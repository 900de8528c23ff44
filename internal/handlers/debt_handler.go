package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/aggregate"
	"saveandplay/internal/models"
	"saveandplay/internal/services"
)

// DebtHandler handles debts and debt payments.
type DebtHandler struct {
	debtService services.DebtServicer
	userService services.UserServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, userService services.UserServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, userService: userService}
}

// CreateDebtRequest represents the request payload for creating a debt
type CreateDebtRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Emoji          string  `json:"emoji" binding:"max=16"`
	TotalAmount    float64 `json:"total_amount" binding:"required,gt=0"`
	MonthlyPayment float64 `json:"monthly_payment" binding:"required,gt=0"`
	DueDate        int     `json:"due_date" binding:"required,day_of_month"`
}

// UpdateDebtRequest represents the request payload for editing a debt
type UpdateDebtRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=100"`
	Emoji          *string  `json:"emoji" binding:"omitempty,max=16"`
	TotalAmount    *float64 `json:"total_amount" binding:"omitempty,gt=0"`
	MonthlyPayment *float64 `json:"monthly_payment" binding:"omitempty,gt=0"`
	DueDate        *int     `json:"due_date" binding:"omitempty,day_of_month"`
}

// PayRequest represents a payment towards a debt
type PayRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,currency"`
}

// DebtResponse is a debt with its repayment progress.
type DebtResponse struct {
	models.Debt
	Remaining float64 `json:"remaining"`
	Progress  int     `json:"progress"`
}

func toDebtResponse(d models.Debt) DebtResponse {
	return DebtResponse{
		Debt:      d,
		Remaining: d.Remaining(),
		Progress:  aggregate.DebtProgressPercent(d.PaidAmount, d.TotalAmount),
	}
}

// CreateDebt handles debt creation
// @Summary     Create a debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} DebtResponse "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, req.Name, req.Emoji, req.TotalAmount, req.MonthlyPayment, req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"debt": toDebtResponse(*debt)})
}

// ListDebts returns the user's debts
// @Summary     List debts
// @Description List debts ordered by due day. Fully paid debts stay listed.
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} DebtResponse
// @Router      /debts [get]
func (h *DebtHandler) ListDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]DebtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"debts": out})
}

// GetDebt returns one debt
// @Summary     Get a debt
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} DebtResponse
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [get]
func (h *DebtHandler) GetDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebt(c.Request.Context(), userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debt": toDebtResponse(*debt)})
}

// UpdateDebt edits a debt's terms
// @Summary     Update a debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Param       request body UpdateDebtRequest true "Fields to change"
// @Success     200 {object} DebtResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	debt, err := h.debtService.UpdateDebt(c.Request.Context(), userID, debtID, services.DebtUpdate{
		Name:           req.Name,
		Emoji:          req.Emoji,
		TotalAmount:    req.TotalAmount,
		MonthlyPayment: req.MonthlyPayment,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debt": toDebtResponse(*debt)})
}

// DeleteDebt removes a debt and its payments
// @Summary     Delete a debt
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(c.Request.Context(), userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Debt deleted"})
}

// Pay records a payment
// @Summary     Pay a debt
// @Description Record a payment, entered in the given or display currency. Overpaying is allowed.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Param       request body PayRequest true "Payment"
// @Success     201 {object} DebtResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id}/payments [post]
func (h *DebtHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	code, err := entryCurrency(ctx, h.userService, userID, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.debtService.Pay(ctx, userID, debtID, req.Amount, code); err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebt(ctx, userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"debt": toDebtResponse(*debt)})
}

// ListPayments returns one debt's payments
// @Summary     List a debt's payments
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {array} models.DebtPayment
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id}/payments [get]
func (h *DebtHandler) ListPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.debtService.ListPayments(c.Request.Context(), userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
