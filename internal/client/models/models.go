// Package models defines the storefront resources as the client sees them
// on the wire.
package models

import "time"

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user may manage the catalog and settings.
func (u *User) IsAdmin() bool { return u != nil && u.Role == "admin" }

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput is a create or update request. Nil fields are not sent.
type ProductInput struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// ImageFile is a local image attached to a product request.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type HomeSettings struct {
	HeroImage          string    `json:"heroImage"`
	HeroTitle          string    `json:"heroTitle"`
	HeroSubtitle       string    `json:"heroSubtitle"`
	FeaturedProductIDs []string  `json:"featuredProductIds"`
	CollageImages      []string  `json:"collageImages"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type HomeSettingsInput struct {
	HeroImage          *string   `json:"heroImage,omitempty"`
	HeroTitle          *string   `json:"heroTitle,omitempty"`
	HeroSubtitle       *string   `json:"heroSubtitle,omitempty"`
	FeaturedProductIDs *[]string `json:"featuredProductIds,omitempty"`
	CollageImages      *[]string `json:"collageImages,omitempty"`
}

type AboutSettings struct {
	FounderImage  string    `json:"founderImage"`
	FounderQuote  string    `json:"founderQuote"`
	CollageImages []string  `json:"collageImages"`
	FlagshipImage string    `json:"flagshipImage"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type AboutSettingsInput struct {
	FounderImage  *string   `json:"founderImage,omitempty"`
	FounderQuote  *string   `json:"founderQuote,omitempty"`
	CollageImages *[]string `json:"collageImages,omitempty"`
	FlagshipImage *string   `json:"flagshipImage,omitempty"`
}

// SignupResult is returned by signup. VerificationCode is only present
// when the server runs in demo delivery mode.
type SignupResult struct {
	Message          string `json:"message"`
	UserID           string `json:"userId"`
	VerificationCode string `json:"verificationCode,omitempty"`
}

// AuthResult is returned by login and email verification.
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ResetRequest is returned by forgot-password.
type ResetRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	ResetCode string `json:"resetCode,omitempty"`
}
