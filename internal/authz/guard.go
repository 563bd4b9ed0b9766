// Package authz holds the single access policy for the ledger: who may do what
// to which resource, and which rows a listing may return.
package authz

import (
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

type Action string

const (
	ActionCreateAccount     Action = "account:create"
	ActionReadAccount       Action = "account:read"
	ActionUpdateAccount     Action = "account:update"
	ActionDeleteAccount     Action = "account:delete"
	ActionCreateTransaction Action = "transaction:create"
	ActionReadTransaction   Action = "transaction:read"
	ActionUpdateTransaction Action = "transaction:update"
	ActionUpdateUser        Action = "user:update"
	ActionListUsers         Action = "user:list"
	ActionDeleteUser        Action = "user:delete"
	ActionChangeRole        Action = "user:role"
	ActionCreateAdmin       Action = "user:create-admin"
)

// adminOnly actions ignore ownership entirely.
var adminOnly = map[Action]bool{
	ActionDeleteAccount: true,
	ActionListUsers:     true,
	ActionDeleteUser:    true,
	ActionChangeRole:    true,
	ActionCreateAdmin:   true,
}

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide is a pure predicate over the actor, the owner of the target resource
// and the requested action. Unknown actions are denied.
func Decide(actor models.Actor, resourceOwnerID string, action Action) Decision {
	if actor.IsAdmin() {
		return Allow
	}
	if adminOnly[action] {
		return Deny
	}
	switch action {
	case ActionCreateAccount, ActionReadAccount, ActionUpdateAccount,
		ActionCreateTransaction, ActionReadTransaction, ActionUpdateTransaction,
		ActionUpdateUser:
		return Decision(actor.ID != "" && actor.ID == resourceOwnerID)
	}
	return Deny
}

var denyMessages = map[Action]string{
	ActionCreateAccount:     "You can only create accounts for yourself",
	ActionReadAccount:       "You can only access your own accounts",
	ActionUpdateAccount:     "You can only update your own accounts",
	ActionDeleteAccount:     "Only an administrator can delete accounts",
	ActionCreateTransaction: "You can only create transactions on your own accounts",
	ActionReadTransaction:   "You can only view transactions of your own accounts",
	ActionUpdateTransaction: "You can only update transactions of your own accounts",
	ActionUpdateUser:        "You can only update your own user details",
	ActionListUsers:         "Only an administrator can list users",
	ActionDeleteUser:        "Only an administrator can delete users",
	ActionChangeRole:        "Only an administrator can change roles",
	ActionCreateAdmin:       "Only an administrator can create administrators",
}

// Authorize is Decide expressed as an error, for use inside services.
func Authorize(actor models.Actor, resourceOwnerID string, action Action) error {
	if Decide(actor, resourceOwnerID, action) == Allow {
		return nil
	}
	return Denied(action)
}

// Denied is the Forbidden error reported when action is refused.
func Denied(action Action) error {
	msg, ok := denyMessages[action]
	if !ok {
		msg = "Forbidden"
	}
	return apperr.Forbidden(msg)
}
