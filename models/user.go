package models

import "time"

// User is an authenticated identity. Anonymous guests have no email or
// password and carry IsAnonymous=true.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Password    string    `json:"-" bson:"password,omitempty"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	PhotoURL    string    `json:"photo_url" bson:"photo_url"`
	Provider    string    `json:"provider,omitempty" bson:"provider,omitempty"`
	ProviderID  string    `json:"-" bson:"provider_id,omitempty"`
	IsAnonymous bool      `json:"is_anonymous" bson:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the slice of a user the storefront renders: display name,
// avatar, and the guest flag. Fallbacks for guests are applied here.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}
