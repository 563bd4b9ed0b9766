package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/middleware"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

type TransactionCommander interface {
	ApplyTransaction(context.Context, cqrs.ApplyTransactionCommand) (*models.LedgerResult, error)
	UpdateTransaction(context.Context, cqrs.UpdateTransactionCommand) (*models.Transaction, error)
}

type TransactionQuerier interface {
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.Transaction, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

// Amount is a pointer so a missing amount fails validation instead of
// reading as zero.
type CreateTransactionRequest struct {
	AccountID   string           `json:"accountId" validate:"required"`
	Type        string           `json:"type" validate:"required,oneof=deposit withdrawal"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description string           `json:"description" validate:"max=255"`
}

type UpdateTransactionRequest struct {
	Description string `json:"description" validate:"max=255"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.commands.ApplyTransaction(c.Request.Context(), cqrs.ApplyTransactionCommand{
		Actor:       actor,
		AccountID:   req.AccountID,
		Type:        models.TransactionType(req.Type),
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	txns, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		Actor:     actor,
		AccountID: c.Query("accountId"),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	txn, err := h.commands.UpdateTransaction(c.Request.Context(), cqrs.UpdateTransactionCommand{
		Actor:         actor,
		TransactionID: c.Param("id"),
		Description:   req.Description,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}
