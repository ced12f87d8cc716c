package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token is only accepted where its purpose matches.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// Claims is the JWT payload for both session and password reset tokens.
type Claims struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// UserClaims is the identity embedded in a session token.
type UserClaims struct {
	UserID   string
	Nickname string
	FullName string
	Email    string
}

// RevokedToken is a blacklisted_tokens document. Only the token fingerprint is stored.
type RevokedToken struct {
	TokenHash string    `bson:"token_hash"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"johndoe@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,password"`
}
