package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	"github.com/minou2442/clinic/pkg/reqctx"
)

type fakeSessions struct{ live map[uuid.UUID]uuid.UUID }

func (f fakeSessions) ValidateSession(_ context.Context, sid, uid uuid.UUID) error {
	if owner, ok := f.live[sid]; ok && owner == uid {
		return nil
	}
	return errors.New("gone")
}

func newManager(t *testing.T) *pasetotoken.Manager {
	t.Helper()
	keys := pasetotoken.NewLocalKeys()
	m, err := pasetotoken.New(pasetotoken.Config{Mode: keys.Mode, Issuer: "dentaldesk", Audience: "staff", AccessTTL: time.Minute}, keys)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer  ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestAuthRequiredAndRequirePermission(t *testing.T) {
	mgr := newManager(t)
	authz, err := authorize.NewDefaultAuthorization(nil)
	if err != nil {
		t.Fatal(err)
	}

	uid, sid, stale := uuid.New(), uuid.New(), uuid.New()
	sessions := fakeSessions{live: map[uuid.UUID]uuid.UUID{sid: uid}}

	app := fiber.New()
	app.Use(RequestID())
	guarded := app.Group("/api", AuthRequired(mgr, sessions))
	guarded.Get("/waiting-room", RequirePermission(authz, authorize.PermWaitingRoom), func(c fiber.Ctx) error {
		if !reqctx.IsAuthenticated(c.Context()) {
			return fiber.ErrTeapot
		}
		if reqctx.RequestIDFromContext(c.Context()) == "" {
			return fiber.ErrTeapot
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	token := func(role string, session uuid.UUID) string {
		tok, err := mgr.IssueAccess(uid, &session, role)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + tok
	}
	refresh, err := mgr.IssueRefresh(uid, &sid)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"revoked session", token("receptionist", stale), fiber.StatusUnauthorized},
		{"allowed role", token("receptionist", sid), fiber.StatusNoContent},
		{"wildcard role", token("admin_medical", sid), fiber.StatusNoContent},
		{"denied role", token("stock_manager", sid), fiber.StatusForbidden},
		{"unknown role", token("janitor", sid), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/api/waiting-room", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c fiber.Ctx) error {
		rid, _ := RequestIDFromFiber(c)
		meta, ok := RequestMetaFromFiber(c)
		if !ok || meta.RequestID != rid {
			return fiber.ErrTeapot
		}
		return c.SendString(rid)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("incoming id not preserved: %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("generated id is not a uuid: %v", err)
	}
}

func TestNewLimiter_Memory(t *testing.T) {
	app := fiber.New()
	app.Use(NewLimiter(nil, 2))
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	var last int
	for range 3 {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		last = resp.StatusCode
	}
	if last != fiber.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
