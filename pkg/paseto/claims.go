package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	SessionID *uuid.UUID
	Role      string

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
}

// GetUserID implements authorize.Principal and reqctx.AuthClaims.
func (c *Claims) GetUserID() uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	return c.UserID
}

func (c *Claims) GetSessionID() *uuid.UUID {
	if c == nil {
		return nil
	}
	return c.SessionID
}

// GetRole implements authorize.Principal and reqctx.AuthClaims.
func (c *Claims) GetRole() string {
	if c == nil {
		return ""
	}
	return c.Role
}

func (c *Claims) GetTokenType() string {
	if c == nil {
		return ""
	}
	return string(c.Type)
}

func (c *Claims) IsExpired() bool {
	if c == nil {
		return true
	}
	return time.Now().After(c.ExpiresAt)
}
