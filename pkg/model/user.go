package model

import "time"

// User owns appointments by id only; nothing embeds a back-reference
// collection on the user itself.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
