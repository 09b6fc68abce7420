package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lu-foet/notes-api/pkg/enums"
)

// AccessTokenClaims is the JWT claim set issued at login. UserID is nil for
// the shared admin identity, which has no user row.
type AccessTokenClaims struct {
	UserID *uuid.UUID `json:"uid,omitempty"`
	Email  string     `json:"email,omitempty"`
	Name   string     `json:"name,omitempty"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenPayload bundles the values minted into a token.
type AccessTokenPayload struct {
	UserID *uuid.UUID
	Email  string
	Name   string
	Role   enums.Role
	JTI    string
}
