package cqrs

import "github.com/mperez230-ship-it/MiniBanco/shared/models"

// ---------- User queries ----------

// ListUsersQuery is admin-only.
type ListUsersQuery struct {
	Actor models.Actor
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account, subject to ownership check.
type GetAccountQuery struct {
	Actor     models.Actor
	AccountID string
}

// ListAccountsQuery lists every account the actor may see.
type ListAccountsQuery struct {
	Actor models.Actor
}

// ---------- Transaction queries ----------

// ListTransactionsQuery lists transactions visible to the actor. An empty
// AccountID means every account in the actor's scope.
type ListTransactionsQuery struct {
	Actor     models.Actor
	AccountID string
}
