package authorize

import (
	"context"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"
)

// AuditedAuthorization wraps an IAuthorization implementation with audit logging.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{
		inner:  inner,
		logger: logger,
	}
}

func (a *AuditedAuthorization) HasPermission(ctx context.Context, role Role, perm Permission) bool {
	start := time.Now()
	allowed := a.inner.HasPermission(ctx, role, perm)

	attrs := []any{
		"role", string(role),
		"permission", string(perm),
		"allowed", allowed,
		"duration_us", time.Since(start).Microseconds(),
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		attrs = append(attrs, "request_id", rid)
	}

	// navigation filtering checks every menu entry, so grants stay at debug
	if allowed {
		a.logger.DebugContext(ctx, "authz_decision", attrs...)
	} else {
		a.logger.InfoContext(ctx, "authz_decision", attrs...)
	}

	return allowed
}

func (a *AuditedAuthorization) MustHavePermission(ctx context.Context, role Role, perm Permission) error {
	if !a.HasPermission(ctx, role, perm) {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) HasRole(p Principal, role Role) bool {
	return a.inner.HasRole(p, role)
}

func (a *AuditedAuthorization) Permissions(role Role) []Permission {
	return a.inner.Permissions(role)
}

func (a *AuditedAuthorization) IsWildcard(role Role) bool {
	return a.inner.IsWildcard(role)
}

func (a *AuditedAuthorization) Raw() *casbin.SyncedEnforcer {
	return a.inner.Raw()
}
