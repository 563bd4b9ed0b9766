package repository

import "github.com/mperez230-ship-it/MiniBanco/shared/apperr"

// Errors shared by every store so callers see the same messages regardless of
// the backend.
var (
	ErrUserNotFound        = apperr.NotFound("User not found")
	ErrUserExists          = apperr.Conflict("User already exists")
	ErrAccountNotFound     = apperr.NotFound("Account not found")
	ErrAccountExists       = apperr.Conflict("Account already exists")
	ErrOwnerNotFound       = apperr.NotFound("Account owner not found")
	ErrTransactionNotFound = apperr.NotFound("Transaction not found")
	ErrTransactionExists   = apperr.Conflict("Transaction already exists")
)
