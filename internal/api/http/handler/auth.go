package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/minou2442/clinic/internal/service/auth"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
)

type AuthHandler struct {
	svc    auth.Service
	logger *slog.Logger
}

func NewAuthHandler(svc auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

func tokensBody(t auth.AuthTokens) fiber.Map {
	return fiber.Map{
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
		"expires_in":    t.ExpiresIn,
		"token_type":    "Bearer",
	}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		return h.mapAuthError(c, err)
	}

	out := tokensBody(res.Tokens)
	out["user"] = res.Profile
	return ok(c, out)
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	tokens, err := h.svc.RefreshTokens(c.Context(), body.RefreshToken)
	if err != nil {
		return h.mapAuthError(c, err)
	}
	return ok(c, tokensBody(*tokens))
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found || claims.SessionID == nil {
		return unauthorized(c)
	}
	if err := h.svc.Logout(c.Context(), *claims.SessionID); err != nil {
		return h.mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c)
	}
	p, err := h.svc.Me(c.Context(), claims.UserID)
	if err != nil {
		return h.mapAuthError(c, err)
	}
	return ok(c, p)
}

func (h *AuthHandler) mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrUnknownStaff):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAccountLocked):
		return tooManyRequests(c, err.Error())
	default:
		h.logger.ErrorContext(c.Context(), "auth request failed", "path", c.Path(), "error", err)
		return internalError(c)
	}
}
