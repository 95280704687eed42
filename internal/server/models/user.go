// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account in the identity store. PasswordHash never leaves the
// server; it is excluded from JSON.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	IsVerified       bool       `json:"isVerified"`
	VerificationCode *string    `json:"-"`
	ResetCode        *string    `json:"-"`
	ResetCodeExpiry  *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ProfileUpdate holds the optional fields of a profile change. Nil means
// "leave as is".
type ProfileUpdate struct {
	Name  *string
	Email *string
}
