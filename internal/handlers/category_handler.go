package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saveandplay/internal/models"
	"saveandplay/internal/services"
)

// CategoryHandler handles income and expense categories.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the payload for creating or renaming a category
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Emoji string `json:"emoji" binding:"max=16"`
}

// ReorderRequest swaps the categories at two positions
type ReorderRequest struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required"`
}

type kindURI struct {
	Kind string `uri:"kind" binding:"required,category_kind"`
}

func bindKind(c *gin.Context) (models.CategoryKind, error) {
	var uri kindURI
	if err := c.ShouldBindUri(&uri); err != nil {
		return "", bindError(err)
	}
	return models.CategoryKind(uri.Kind), nil
}

// ListCategories returns the categories of one kind
// @Summary     List categories
// @Description Categories of one kind in display order
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Success     200 {array} models.Category
// @Failure     400 {object} ErrorResponse "Invalid kind"
// @Router      /categories/{kind} [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory appends a category
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Param       request body CategoryRequest true "Category"
// @Success     201 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories/{kind} [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, kind, req.Name, req.Emoji)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory renames a category
// @Summary     Update a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Param       id path string true "Category ID"
// @Param       request body CategoryRequest true "Category"
// @Success     200 {object} models.Category
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{kind}/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, kind, categoryID, req.Name, req.Emoji)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category
// @Summary     Delete a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{kind}/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, kind, categoryID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted"})
}

// Reorder swaps two categories
// @Summary     Reorder categories
// @Description Swap the categories at positions from and to. A target outside the list is ignored.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Param       request body ReorderRequest true "Positions"
// @Success     200 {array} models.Category
// @Failure     400 {object} ErrorResponse "Invalid position"
// @Router      /categories/{kind}/reorder [post]
func (h *CategoryHandler) Reorder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	if err := h.categoryService.Reorder(ctx, userID, kind, *req.From, *req.To); err != nil {
		respondWithError(c, err)
		return
	}
	categories, err := h.categoryService.ListCategories(ctx, userID, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Details resolves how an entry's category is shown
// @Summary     Category display details
// @Description Label and emoji for a category name, with a fallback emoji for unknown names
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Param       name query string true "Category name"
// @Success     200 {object} services.CategoryDetails
// @Router      /categories/{kind}/details [get]
func (h *CategoryHandler) Details(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var query struct {
		Name string `form:"name" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	details, err := h.categoryService.Details(c.Request.Context(), userID, kind, query.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
