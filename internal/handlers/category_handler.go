package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns the caller's categories, creating the defaults on first use
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categories, err := h.categoryService.List(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCategoryList(categories))
}

// CreateCategory
// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return sendCategoryError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewCategoryResponse(category))
}

// UpdateCategory
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} dto.CategoryResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryInvalidID)
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.Update(c.Request().Context(), userID, id, &req)
	if err != nil {
		return sendCategoryError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// DeleteCategory fails with 409 while transactions or a budget still use the category
// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_003"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.categoryService.Delete(c.Request().Context(), userID, id); err != nil {
		return sendCategoryError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func sendCategoryError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, errors.CategoryNotFound)
	case stderrors.Is(err, services.ErrCategoryAlreadyExists):
		return SendError(c, errors.CategoryAlreadyExists)
	case stderrors.Is(err, services.ErrCategoryInUse):
		return SendError(c, errors.CategoryInUse, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
