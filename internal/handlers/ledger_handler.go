package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/pagination"
	"saveandplay/internal/services"
)

// LedgerHandler handles incomes and expenses.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	userService   services.UserServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, userService services.UserServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, userService: userService}
}

// EntryRequest represents an income or expense payload. Type is the
// category name; Currency defaults to the user's display currency and Date
// to now.
type EntryRequest struct {
	Type        string  `json:"type" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"omitempty,currency"`
	Date        *string `json:"date"`
	Description string  `json:"description" binding:"max=500"`
}

func (h *LedgerHandler) bindEntry(c *gin.Context, userID string) (services.EntryInput, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return services.EntryInput{}, false
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return services.EntryInput{}, false
	}
	code, err := entryCurrency(c.Request.Context(), h.userService, userID, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return services.EntryInput{}, false
	}

	in := services.EntryInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    code,
		Description: req.Description,
	}
	if date != nil {
		in.Date = *date
	}
	return in, true
}

// CreateIncome records an income
// @Summary     Create an income
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EntryRequest true "Income"
// @Success     201 {object} models.Income
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /incomes [post]
func (h *LedgerHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	in, ok := h.bindEntry(c, userID)
	if !ok {
		return
	}

	income, err := h.ledgerService.CreateIncome(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// ListIncomes returns a page of incomes
// @Summary     List incomes
// @Description Newest first
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Income]
// @Router      /incomes [get]
func (h *LedgerHandler) ListIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.ledgerService.ListIncomes(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateIncome replaces an income
// @Summary     Update an income
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Param       request body EntryRequest true "Income"
// @Success     200 {object} models.Income
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [put]
func (h *LedgerHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	in, ok := h.bindEntry(c, userID)
	if !ok {
		return
	}

	income, err := h.ledgerService.UpdateIncome(c.Request.Context(), userID, incomeID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome removes an income
// @Summary     Delete an income
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [delete]
func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteIncome(c.Request.Context(), userID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Income deleted"})
}

// CreateExpense records an expense
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EntryRequest true "Expense"
// @Success     201 {object} models.Expense
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /expenses [post]
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	in, ok := h.bindEntry(c, userID)
	if !ok {
		return
	}

	expense, err := h.ledgerService.CreateExpense(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses returns a page of expenses
// @Summary     List expenses
// @Description Newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Expense]
// @Router      /expenses [get]
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.ledgerService.ListExpenses(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateExpense replaces an expense
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body EntryRequest true "Expense"
// @Success     200 {object} models.Expense
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	in, ok := h.bindEntry(c, userID)
	if !ok {
		return
	}

	expense, err := h.ledgerService.UpdateExpense(c.Request.Context(), userID, expenseID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted"})
}

