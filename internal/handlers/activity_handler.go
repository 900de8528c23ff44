package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/pagination"
	"saveandplay/internal/services"
)

// ActivityHandler serves the user's activity trail.
type ActivityHandler struct {
	auditService services.AuditServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(auditService services.AuditServicer) *ActivityHandler {
	return &ActivityHandler{auditService: auditService}
}

// ListActivity returns a page of the activity trail
// @Summary     Activity trail
// @Description Changes to the user's records, newest first
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AuditLog]
// @Router      /activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
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

	result, err := h.auditService.ListActivity(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
