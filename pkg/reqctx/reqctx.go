// Package reqctx carries request-scoped values through context.Context so
// services can read the request id and the signed-in staff member without
// importing fiber.
package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type key uint8

const (
	metaKey key = iota + 1
	claimsKey
)

// RequestMeta is stamped on every request by the RequestID middleware.
type RequestMeta struct {
	RequestID  string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

func requestMeta(ctx context.Context) *RequestMeta {
	meta, _ := ctx.Value(metaKey).(*RequestMeta)
	return meta
}

// RequestIDFromContext returns "" outside an HTTP request.
func RequestIDFromContext(ctx context.Context) string {
	if meta := requestMeta(ctx); meta != nil {
		return meta.RequestID
	}
	return ""
}

// AuthClaims is what the auth middleware knows about the caller.
// pasetotoken.Claims implements it.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetSessionID() *uuid.UUID
	GetRole() string
	IsExpired() bool
}

func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns nil for anonymous requests, such as the public display.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(claimsKey).(AuthClaims)
	return claims
}

func IsAuthenticated(ctx context.Context) bool {
	claims := ClaimsFromContext(ctx)
	return claims != nil && !claims.IsExpired()
}
