package models

import "time"

// UserView is what leaves the service for a user. It never carries the
// password hash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// LedgerResult pairs a recorded transaction with the account state it produced.
type LedgerResult struct {
	Transaction *Transaction `json:"transaction"`
	Account     *Account     `json:"account"`
}

// LoginView is returned by a successful login.
type LoginView struct {
	User  *UserView `json:"user"`
	Token string    `json:"token"`
}
