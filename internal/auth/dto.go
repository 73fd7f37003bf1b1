package auth

import (
	"github.com/openshophq/openshop-backend/internal/users"
)

// RegisterRequest is the validated payload for account creation.
type RegisterRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	MiddleName    string `json:"middle_name" validate:"max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	Phone1        string `json:"phone_number1" validate:"max=32"`
	Phone2        string `json:"phone_number2" validate:"max=32"`
	Gender        string `json:"gender" validate:"omitempty,oneof=male female"`
	Title         string `json:"title" validate:"omitempty,oneof=mr mrs miss dr"`
	MaritalStatus string `json:"marital_status" validate:"omitempty,oneof=single married divorced widowed"`
	Address1      string `json:"address1" validate:"max=255"`
	Address2      string `json:"address2" validate:"max=255"`
	Type          string `json:"type" validate:"omitempty,oneof=customer shop_owner"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the bearer token and public profile.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *users.UserDTO `json:"user"`
}

// UpdateProfileRequest holds optional profile mutations for PUT /auth/me.
type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,max=100"`
	MiddleName    *string `json:"middle_name" validate:"omitempty,max=100"`
	LastName      *string `json:"last_name" validate:"omitempty,max=100"`
	Phone1        *string `json:"phone_number1" validate:"omitempty,max=32"`
	Phone2        *string `json:"phone_number2" validate:"omitempty,max=32"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=male female"`
	Title         *string `json:"title" validate:"omitempty,oneof=mr mrs miss dr"`
	MaritalStatus *string `json:"marital_status" validate:"omitempty,oneof=single married divorced widowed"`
	Address1      *string `json:"address1" validate:"omitempty,max=255"`
	Address2      *string `json:"address2" validate:"omitempty,max=255"`
}
