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

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

// CreateAccountRequest: balance is the opening balance and userId the owner,
// defaulting to the caller.
type CreateAccountRequest struct {
	ID        string          `json:"id" validate:"required,max=64"`
	UserID    string          `json:"userId" validate:"max=64"`
	Type      string          `json:"type" validate:"required,oneof=savings checking term-deposit"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"createdAt" validate:"max=64"`
}

type UpdateAccountRequest struct {
	Type string `json:"type" validate:"omitempty,oneof=savings checking term-deposit"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		Actor:          actor,
		ID:             req.ID,
		OwnerID:        req.UserID,
		Type:           models.AccountType(req.Type),
		InitialBalance: req.Balance,
		CreatedAt:      req.CreatedAt,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{Actor: actor})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{
		Actor:     actor,
		AccountID: c.Param("id"),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		Actor:     actor,
		AccountID: c.Param("id"),
		Type:      models.AccountType(req.Type),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{
		Actor:     actor,
		AccountID: c.Param("id"),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
