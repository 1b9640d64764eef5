package domain

import "time"

// User models an account known to the credential store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the session identity this account signs in as.
func (u *User) Identity() SessionIdentity {
	return SessionIdentity{Role: u.Role, Username: u.Username}
}
