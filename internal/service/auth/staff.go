package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/pkg/authorize"
)

// staffNamespace seeds stable ids for accounts configured without one.
var staffNamespace = uuid.MustParse("5b1c7a4e-3f0d-4d6b-9a8e-2c4f1e7d9b30")

// StaffMember is a sign-in identity loaded from configuration.
type StaffMember struct {
	ID           uuid.UUID
	Username     string
	FirstName    string
	LastName     string
	Role         authorize.Role
	PasswordHash string
}

// directory indexes staff by id and lower-cased username.
type directory struct {
	byID       map[uuid.UUID]*StaffMember
	byUsername map[string]*StaffMember
}

func newDirectory(accounts []config.StaffAccount) (*directory, error) {
	d := &directory{
		byID:       make(map[uuid.UUID]*StaffMember, len(accounts)),
		byUsername: make(map[string]*StaffMember, len(accounts)),
	}

	for i, a := range accounts {
		username := strings.ToLower(strings.TrimSpace(a.Username))
		if username == "" {
			return nil, fmt.Errorf("%w: staff[%d] has no username", ErrInvalidStaff, i)
		}
		role := authorize.Role(strings.TrimSpace(a.Role))
		if !authorize.IsKnownRole(role) {
			return nil, fmt.Errorf("%w: %s has unknown role %q", ErrInvalidStaff, username, a.Role)
		}
		if a.PasswordHash == "" {
			return nil, fmt.Errorf("%w: %s has no password hash", ErrInvalidStaff, username)
		}

		id := uuid.NewSHA1(staffNamespace, []byte(username))
		if a.ID != "" {
			parsed, err := uuid.Parse(a.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: id: %w", ErrInvalidStaff, username, err)
			}
			id = parsed
		}

		if _, dup := d.byUsername[username]; dup {
			return nil, fmt.Errorf("%w: duplicate username %s", ErrInvalidStaff, username)
		}
		if _, dup := d.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidStaff, id)
		}

		m := &StaffMember{
			ID:           id,
			Username:     username,
			FirstName:    strings.TrimSpace(a.FirstName),
			LastName:     strings.TrimSpace(a.LastName),
			Role:         role,
			PasswordHash: a.PasswordHash,
		}
		d.byID[id] = m
		d.byUsername[username] = m
	}
	return d, nil
}

func (d *directory) lookup(username string) (*StaffMember, bool) {
	m, ok := d.byUsername[strings.ToLower(strings.TrimSpace(username))]
	return m, ok
}

func (d *directory) get(id uuid.UUID) (*StaffMember, bool) {
	m, ok := d.byID[id]
	return m, ok
}
