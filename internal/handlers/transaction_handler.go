package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListTransactions returns the caller's filtered and sorted transactions
// @Summary List transactions
// @Description Bare JSON array. Explicit startDate/endDate win over range. An unknown sort or range falls back to the default; an unknown category or type matches nothing.
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD, inclusive"
// @Param category query string false "Category ID"
// @Param type query string false "income or expense" Enums(income, expense)
// @Param sort query string false "Sort option" default(Date (Newest))
// @Param range query string false "Date range name" default(Last 7 days)
// @Param limit query int false "Maximum number of rows"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 or VALIDATION_007"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	txs, err := h.transactionService.List(c.Request().Context(), userID, &query)
	if err != nil {
		return sendTransactionError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionList(txs))
}

// GetTransaction returns one transaction
// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	tx, err := h.transactionService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return sendTransactionError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// CreateTransaction records a transaction
// @Summary Create transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_004 unknown category"
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_007 externalId already imported"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	tx, err := h.transactionService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return sendTransactionError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// UpdateTransaction fully replaces a transaction
// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} dto.TransactionResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	tx, err := h.transactionService.Update(c.Request().Context(), userID, id, &req)
	if err != nil {
		return sendTransactionError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// DeleteTransaction removes a transaction
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	if err := h.transactionService.Delete(c.Request().Context(), userID, id); err != nil {
		return sendTransactionError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func sendTransactionError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrTransactionNotFound):
		return SendError(c, errors.TransactionNotFound)
	case stderrors.Is(err, services.ErrInvalidDate):
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInvalidTransactionType):
		return SendError(c, errors.TransactionInvalidType)
	case stderrors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, errors.TransactionInvalidCategory)
	case stderrors.Is(err, services.ErrDuplicateTransaction):
		return SendError(c, errors.TransactionDuplicate)
	}
	return SendSystemError(c, err)
}
