package model

import (
	"time"
)

type User struct {
	ID                string     `db:"id"`
	Email             string     `db:"email"`
	Password          string     `db:"password"` // bcrypt hash, never the plaintext
	FirstName         string     `db:"first_name"`
	LastName          string     `db:"last_name"`
	IsVerified        bool       `db:"is_verified"`
	VerificationToken *string    `db:"verification_token"`
	TokenExpiration   *time.Time `db:"token_expiration"`
	VerificationLink  *string    `db:"verification_link"`
	AccountCreated    time.Time  `db:"account_created"`
	AccountUpdated    time.Time  `db:"account_updated"`
}

// UserView is the externally visible shape of an account. The password hash
// and all verification-internal fields are stripped.
type UserView struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	AccountCreated time.Time `json:"account_created"`
	AccountUpdated time.Time `json:"account_updated"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		AccountCreated: u.AccountCreated,
		AccountUpdated: u.AccountUpdated,
	}
}
