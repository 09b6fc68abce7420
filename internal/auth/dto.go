package auth

import (
	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/enums"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginRequest carries the shared admin password.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the issued token plus the identity baked into it.
type SessionResponse struct {
	Token     string     `json:"token"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      enums.Role `json:"role"`
	IsPremium bool       `json:"is_premium"`
}

func ToSessionResponse(session *Session) SessionResponse {
	return SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Email:     session.Email,
		Name:      session.Name,
		Role:      session.Role,
		IsPremium: session.IsPremium,
	}
}
