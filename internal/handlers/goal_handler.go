package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/analytics"
	"saveandplay/internal/models"
	"saveandplay/internal/services"
)

// GoalHandler handles savings goals and contributions.
type GoalHandler struct {
	goalService services.GoalServicer
	userService services.UserServicer
	tracker     *analytics.Tracker
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, userService services.UserServicer, tracker *analytics.Tracker) *GoalHandler {
	return &GoalHandler{goalService: goalService, userService: userService, tracker: tracker}
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Emoji       string  `json:"emoji" binding:"max=16"`
	TotalAmount float64 `json:"total_amount" binding:"required,gt=0"`
	Deadline    string  `json:"deadline" binding:"required"`
}

// UpdateGoalRequest represents the request payload for editing a goal
type UpdateGoalRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Emoji       *string  `json:"emoji" binding:"omitempty,max=16"`
	TotalAmount *float64 `json:"total_amount" binding:"omitempty,gt=0"`
	Deadline    *string  `json:"deadline"`
}

// ContributeRequest represents a deposit towards a goal. Currency defaults
// to the user's display currency.
type ContributeRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,currency"`
}

// ContributeResponse reports whether the deposit completed the goal.
type ContributeResponse struct {
	Completed bool        `json:"completed"`
	Goal      models.Goal `json:"goal"`
}

// CreateGoal handles goal creation
// @Summary     Create a goal
// @Description Create an active savings goal with nothing saved
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req.Name, req.Emoji, req.TotalAmount, deadline)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// ListGoals returns the user's goals
// @Summary     List goals
// @Description List goals ordered by deadline, optionally filtered by status
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "active or archived"
// @Success     200 {array} models.Goal
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query struct {
		Status string `form:"status" binding:"omitempty,goal_status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var status *models.GoalStatus
	if query.Status != "" {
		s := models.GoalStatus(query.Status)
		status = &s
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetGoal returns one goal
// @Summary     Get a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.Goal
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal edits an active goal
// @Summary     Update a goal
// @Description Edit name, emoji, target or deadline. Archived goals cannot be edited.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} models.Goal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal archived or changed concurrently"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	deadline, err := optionalDate(req.Deadline)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, services.GoalUpdate{
		Name:        req.Name,
		Emoji:       req.Emoji,
		TotalAmount: req.TotalAmount,
		Deadline:    deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal removes a goal and its contributions
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted"})
}

// Contribute adds money to a goal
// @Summary     Contribute to a goal
// @Description Deposit an amount, entered in the given or display currency. Reaching the target archives the goal.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body ContributeRequest true "Contribution"
// @Success     201 {object} ContributeResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal archived"
// @Router      /goals/{id}/contributions [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
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

	completed, err := h.goalService.Contribute(ctx, userID, goalID, req.Amount, code)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goal, err := h.goalService.GetGoal(ctx, userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if completed {
		h.tracker.Enqueue(userID, analytics.EventGoalCompleted, map[string]any{
			"goal_id":      goal.ID,
			"total_amount": goal.TotalAmount,
		})
	}
	c.JSON(http.StatusCreated, ContributeResponse{Completed: completed, Goal: *goal})
}

// ListContributions returns one goal's contributions
// @Summary     List a goal's contributions
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {array} models.Contribution
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/contributions [get]
func (h *GoalHandler) ListContributions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributions, err := h.goalService.ListContributions(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": contributions})
}

// ListAllContributions returns every contribution of the user
// @Summary     List all contributions
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Contribution
// @Router      /contributions [get]
func (h *GoalHandler) ListAllContributions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributions, err := h.goalService.ListContributions(c.Request.Context(), userID, "")
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": contributions})
}
