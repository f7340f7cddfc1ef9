package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	"github.com/minou2442/clinic/pkg/util/password"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Username string
	Password string
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until access token expires
	SessionID    uuid.UUID
}

// Profile is the signed-in staff member as returned by /auth/me.
type Profile struct {
	ID              uuid.UUID              `json:"id"`
	Username        string                 `json:"username"`
	FirstName       string                 `json:"firstName"`
	LastName        string                 `json:"lastName"`
	Role            authorize.Role         `json:"role"`
	RoleDisplayName string                 `json:"roleDisplayName"`
	Permissions     []authorize.Permission `json:"permissions"`
}

type LoginResult struct {
	Tokens  AuthTokens
	Profile Profile
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// ValidateSession checks that the session behind an access token is still live
	// and belongs to userID.
	ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	store      Store
	staff      *directory
	paseto     *pasetotoken.Manager
	authz      authorize.IAuthorization
	hasher     *password.Hasher
	logger     *slog.Logger
	sessionTTL time.Duration

	// dummyHash is verified for unknown usernames so both paths cost the same.
	dummyHash string
}

func New(
	cfg *config.Config,
	store Store,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
	hasher *password.Hasher,
	logger *slog.Logger,
) (Service, error) {
	staff, err := newDirectory(cfg.Staff)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("auth service: dummy hash: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &authService{
		store:      store,
		staff:      staff,
		paseto:     paseto,
		authz:      authz,
		hasher:     hasher,
		logger:     logger.With("component", "auth"),
		sessionTTL: ttl,
		dummyHash:  dummy,
	}, nil
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	failures, err := s.store.Failures(ctx, username)
	if err != nil {
		return nil, err
	}
	if failures >= maxLoginAttempts {
		return nil, ErrAccountLocked
	}

	m, ok := s.staff.lookup(username)
	if !ok {
		_ = password.Verify(s.dummyHash, req.Password)
		s.recordFailedLogin(ctx, username)
		return nil, ErrInvalidCredentials
	}

	if err := password.Verify(m.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.ErrorContext(ctx, "stored password hash is unusable", "user_id", m.ID, "error", err)
		}
		s.recordFailedLogin(ctx, username)
		return nil, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(m.PasswordHash) {
		s.logger.WarnContext(ctx, "password hash uses outdated parameters; regenerate it with `system hash-password`",
			"username", m.Username)
	}

	if err := s.store.ClearFailures(ctx, username); err != nil {
		s.logger.WarnContext(ctx, "could not reset login failures", "username", username, "error", err)
	}

	tokens, err := s.createSession(ctx, m)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "staff signed in", "user_id", m.ID, "role", m.Role, "session_id", tokens.SessionID)
	return &LoginResult{Tokens: *tokens, Profile: s.profile(m)}, nil
}

// ---------------------------------------------------------------------------
// RefreshTokens
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != pasetotoken.TokenTypeRefresh || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	if err := s.ValidateSession(ctx, *claims.SessionID, claims.UserID); err != nil {
		return nil, err
	}
	if err := s.store.TouchSession(ctx, *claims.SessionID, s.sessionTTL); err != nil {
		return nil, err
	}

	// the role is re-read so a config change applies on the next refresh
	m, ok := s.staff.get(claims.UserID)
	if !ok {
		return nil, ErrInvalidToken
	}

	access, err := s.paseto.IssueAccess(m.ID, claims.SessionID, string(m.Role))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken, // unchanged
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
		SessionID:    *claims.SessionID,
	}, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.store.DeleteSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.DebugContext(ctx, "logout: session already expired", "session_id", sessionID)
	}
	return nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return ErrSessionNotFound
	}
	return nil
}

func (s *authService) Me(_ context.Context, userID uuid.UUID) (*Profile, error) {
	m, ok := s.staff.get(userID)
	if !ok {
		return nil, ErrUnknownStaff
	}
	p := s.profile(m)
	return &p, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, m *StaffMember) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	sess := Session{UserID: m.ID, Role: string(m.Role), CreatedAt: time.Now().UTC()}
	if err := s.store.SaveSession(ctx, sessionID, sess, s.sessionTTL); err != nil {
		return nil, err
	}

	access, err := s.paseto.IssueAccess(m.ID, &sessionID, string(m.Role))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(m.ID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
		SessionID:    sessionID,
	}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, username string) {
	n, err := s.store.RecordFailure(ctx, username, accountLockMins*time.Minute)
	if err != nil {
		s.logger.WarnContext(ctx, "could not record login failure", "username", username, "error", err)
		return
	}
	if n == maxLoginAttempts {
		s.logger.WarnContext(ctx, "account locked after repeated login failures",
			"username", username, "lock_minutes", accountLockMins)
	}
}

func (s *authService) profile(m *StaffMember) Profile {
	return Profile{
		ID:              m.ID,
		Username:        m.Username,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Role:            m.Role,
		RoleDisplayName: authorize.RoleDisplayNamesFR[m.Role],
		Permissions:     s.authz.Permissions(m.Role),
	}
}
