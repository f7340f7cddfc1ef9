package authorize

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/minou2442/clinic/pkg/reqctx"
)

var (
	ErrNoSubjectInContext = errors.New("no subject found in context")
)

// Principal is the signed-in staff member as seen by access checks.
// pasetotoken.Claims satisfies it.
type Principal interface {
	GetUserID() uuid.UUID
	GetRole() string
}

// PrincipalFromContext returns the authenticated principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	claims := reqctx.ClaimsFromContext(ctx)
	if claims == nil {
		return nil, ErrNoSubjectInContext
	}
	if claims.GetUserID() == uuid.Nil {
		return nil, ErrNoSubjectInContext
	}
	return claims, nil
}

// RoleFromContext extracts the caller's role. Unknown roles are returned as-is;
// HasPermission denies them.
func RoleFromContext(ctx context.Context) (Role, error) {
	p, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	return Role(p.GetRole()), nil
}

// MustRoleFromContext extracts the role or panics.
// Use only behind the auth middleware.
func MustRoleFromContext(ctx context.Context) Role {
	role, err := RoleFromContext(ctx)
	if err != nil {
		panic(err)
	}
	return role
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return reqctx.RequestIDFromContext(ctx)
}
