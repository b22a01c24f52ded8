// Package models defines the typed records persisted by the server and the
// request-scoped DTOs exchanged with the transport layer.
package models

import "time"

// Profile is the free-form public part of an account. Avatar holds an object
// storage key, not a URL; clients obtain URLs via the avatar presign endpoint.
type Profile struct {
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Github   string `json:"github,omitempty"`
}

// Account is the persisted account record. Password holds the PHC-formatted
// argon2id hash, never the plaintext. Exactly one of Email/Phone is set at
// registration.
type Account struct {
	ID          string
	Username    string
	Password    string
	Email       string
	Phone       string
	Profile     Profile
	Rating      int
	CreditScore int
	IsAdmin     bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultCreditScore is assigned to every new account.
const DefaultCreditScore = 60

// NewAccount builds an Account from validated registration data and an
// already-hashed password, with secure defaults: empty profile, zero rating,
// starting credit score, active, non-admin.
func NewAccount(reg *Register, passwordHash string) *Account {
	now := time.Now()
	return &Account{
		Username:    reg.Username,
		Password:    passwordHash,
		Email:       reg.Email,
		Phone:       reg.Phone,
		Profile:     Profile{},
		Rating:      0,
		CreditScore: DefaultCreditScore,
		IsAdmin:     false,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UserToken is the payload returned by Register and Login.
type UserToken struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
