package model

import "time"

// User is a row in the users table. Only the fields the booking flow needs
// are modelled; the password hash never leaves the repository layer in API
// responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
