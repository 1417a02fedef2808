package domain

import "time"

type AccountType string

const (
	AccountTypeTenant      AccountType = "tenant_account"
	AccountTypeEnvironment AccountType = "environment_account"
)

type ContextType string

const (
	ContextTypeTenant      ContextType = "tenant"
	ContextTypeEnvironment ContextType = "environment"
)

// Session is server-issued proof of authentication. The console never
// mutates it, it only fetches it again.
type Session struct {
	ID           string      `json:"id"`
	AccountType  AccountType `json:"accountType"`
	AccountID    string      `json:"accountId"`
	ContextType  ContextType `json:"contextType"`
	ContextID    string      `json:"contextId"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	IPAddress    string      `json:"ipAddress,omitempty"`
	UserAgent    string      `json:"userAgent,omitempty"`
	LastActiveAt time.Time   `json:"lastActiveAt"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// LoginRequest carries exactly one of Email, Phone or Username.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccountID string  `json:"accountId"`
	Session   Session `json:"session"`
}

type LogoutAllResponse struct {
	Revoked int `json:"revoked"`
}

type ForgotPasswordRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
}

type ForgotPasswordResponse struct {
	Message string `json:"message"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
