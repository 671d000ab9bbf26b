// Package models defines the server-side data records.
package models

import "time"

// Account is the persisted user record. Email is stored lower-cased and is
// unique across all accounts. PasswordHash is an opaque bcrypt blob; it is
// never empty once the account exists and never leaves the server boundary.
type Account struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountView is the public projection of an Account, safe to hand to
// callers and to serialize. It deliberately has no place for the hash.
type AccountView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// View projects the account into its public shape.
func (a *Account) View() AccountView {
	return AccountView{ID: a.ID, Email: a.Email, FullName: a.FullName}
}
