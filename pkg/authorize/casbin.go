// pkg/authorize/casbin.go
package authorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// modelText is the RBAC model: one subject (role) per request, p.obj "*" is the wildcard.
const modelText = `[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj)
`

// IAuthorization is the only thing services/middleware should depend on.
type IAuthorization interface {
	// HasPermission answers: "may this role use this feature area?"
	// Unknown roles and tokens are denied; it never returns an error.
	HasPermission(ctx context.Context, role Role, perm Permission) bool

	// MustHavePermission is convenience for services: ErrForbidden if not allowed.
	MustHavePermission(ctx context.Context, role Role, perm Permission) error

	// HasRole is a direct equality check against the principal's role.
	HasRole(p Principal, role Role) bool

	// Permissions lists the tokens granted to role (every token for wildcard roles).
	Permissions(role Role) []Permission

	IsWildcard(role Role) bool

	Raw() *casbin.SyncedEnforcer
}

// Authorization is a thin typed wrapper around casbin.SyncedEnforcer.
type Authorization struct {
	enforcer *casbin.SyncedEnforcer
	table    map[Role][]Permission
	logger   *slog.Logger
}

// NewEnforcer builds an in-memory enforcer loaded with the given policy rows.
func NewEnforcer(policies []PermissionPolicy) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	e.EnableEnforce(true)

	for _, p := range policies {
		if p.Subject == "" || p.Object == "" {
			return nil, fmt.Errorf("%w: empty policy row", ErrInvalidArgs)
		}
		if _, err := e.AddPolicy(string(p.Subject), string(p.Object)); err != nil {
			return nil, fmt.Errorf("add policy %s/%s: %w", p.Subject, p.Object, err)
		}
	}

	return e, nil
}

// NewAuthorization loads table into a fresh enforcer.
func NewAuthorization(table map[Role][]Permission, logger *slog.Logger) (IAuthorization, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty role table", ErrInvalidArgs)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var policies []PermissionPolicy
	for role, perms := range table {
		if !IsKnownRole(role) {
			return nil, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, role)
		}
		for _, p := range perms {
			if p != WildcardPermission && !IsKnownPermission(p) {
				return nil, fmt.Errorf("%w: unknown permission %q for role %q", ErrInvalidArgs, p, role)
			}
			policies = append(policies, PermissionPolicy{Subject: role, Object: p})
		}
	}

	e, err := NewEnforcer(policies)
	if err != nil {
		return nil, err
	}

	return &Authorization{
		enforcer: e,
		table:    table,
		logger:   logger,
	}, nil
}

// NewDefaultAuthorization loads the built-in clinic table.
func NewDefaultAuthorization(logger *slog.Logger) (IAuthorization, error) {
	return NewAuthorization(RolePermissions, logger)
}

func (a *Authorization) Raw() *casbin.SyncedEnforcer { return a.enforcer }

func (a *Authorization) HasPermission(ctx context.Context, role Role, perm Permission) bool {
	_ = ctx

	if role == "" || perm == "" || perm == WildcardPermission {
		return false
	}
	if !IsKnownRole(role) {
		return false
	}

	allowed, err := a.enforcer.Enforce(string(role), string(perm))
	if err != nil {
		a.logger.Error("permission check failed", "role", role, "permission", perm, "error", err)
		return false
	}
	return allowed
}

func (a *Authorization) MustHavePermission(ctx context.Context, role Role, perm Permission) error {
	if !a.HasPermission(ctx, role, perm) {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) HasRole(p Principal, role Role) bool {
	if p == nil || role == "" {
		return false
	}
	return Role(p.GetRole()) == role
}

func (a *Authorization) IsWildcard(role Role) bool {
	for _, p := range a.table[role] {
		if p == WildcardPermission {
			return true
		}
	}
	return false
}

func (a *Authorization) Permissions(role Role) []Permission {
	if a.IsWildcard(role) {
		return SortedPermissions()
	}
	perms := a.table[role]
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if IsKnownPermission(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
