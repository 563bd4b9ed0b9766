package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/middleware"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	Register(context.Context, cqrs.RegisterUserCommand) (*models.UserView, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	ListUsers(context.Context, cqrs.ListUsersQuery) ([]models.UserView, error)
	Authenticate(context.Context, cqrs.LoginCommand) (*models.LoginView, error)
}

type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type RegisterUserRequest struct {
	ID       string `json:"id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name string `json:"name" validate:"max=255"`
	Role string `json:"role" validate:"omitempty,oneof=user admin"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

// Register is reachable without credentials. When an admin is authenticated
// the requested role is honoured.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	cmd := cqrs.RegisterUserCommand{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		Role:     models.Role(req.Role),
	}
	if actor, ok := middleware.GetActor(c); ok {
		cmd.Actor = &actor
	}

	user, err := h.commands.Register(c.Request.Context(), cmd)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	login, err := h.queries.Authenticate(c.Request.Context(), cqrs.LoginCommand{ID: req.ID, Password: req.Password})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, login)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	users, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{Actor: actor})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		Actor:  actor,
		UserID: c.Param("id"),
		Name:   req.Name,
		Role:   models.Role(req.Role),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{
		Actor:  actor,
		UserID: c.Param("id"),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
