package domain

import "time"

// Customer represents a registered shopper.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor is the identity attached to a request. IsAdmin is decided at the
// HTTP boundary from configuration; services only consume the flag.
type Actor struct {
	ID      string
	Email   string
	IsAdmin bool
}
