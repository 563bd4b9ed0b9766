package authz

import "github.com/mperez230-ship-it/MiniBanco/shared/models"

// Scope is the visibility predicate for list operations. A zero OwnerID with
// All set means no filtering.
type Scope struct {
	All     bool
	OwnerID string
}

// ScopeFor derives the listing scope of an actor.
func ScopeFor(actor models.Actor) Scope {
	if actor.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{OwnerID: actor.ID}
}

// Allows reports whether a row owned by ownerID is inside the scope.
func (s Scope) Allows(ownerID string) bool {
	return s.All || (s.OwnerID != "" && s.OwnerID == ownerID)
}
