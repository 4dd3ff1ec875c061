package dto

import "github.com/vitacross/vitacross-api/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthCallbackRequest carries the identity token obtained by the browser
// from Google or Apple, plus the profile fields the provider handed out.
type OAuthCallbackRequest struct {
	IDToken string `json:"idToken" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Name    string `json:"name" validate:"omitempty,max=120"`
	Picture string `json:"picture" validate:"omitempty,url"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Country  *string `json:"country" validate:"omitempty,max=64"`
	City     *string `json:"city" validate:"omitempty,max=64"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
	Language *string `json:"language" validate:"omitempty,oneof=en zh"`
}

type UpdatePreferencesRequest struct {
	SubscribedToEmails *bool `json:"subscribedToEmails"`
}

type SendVerificationCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyEmailCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

type UserResponse struct {
	User *models.User `json:"user"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
