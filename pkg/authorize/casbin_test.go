package authorize

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// mockPrincipal implements Principal for testing
type mockPrincipal struct {
	userID uuid.UUID
	role   string
}

func (m *mockPrincipal) GetUserID() uuid.UUID { return m.userID }
func (m *mockPrincipal) GetRole() string      { return m.role }

func newTestAuthorization(t *testing.T) IAuthorization {
	t.Helper()

	auth, err := NewDefaultAuthorization(nil)
	if err != nil {
		t.Fatalf("failed to create authorization: %v", err)
	}
	return auth
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for empty table", func(t *testing.T) {
		_, err := NewAuthorization(nil, nil)
		if err == nil {
			t.Error("Expected error for empty table")
		}
	})

	t.Run("returns error for unknown role", func(t *testing.T) {
		_, err := NewAuthorization(map[Role][]Permission{"janitor": {PermDashboard}}, nil)
		if err == nil {
			t.Error("Expected error for unknown role")
		}
	})

	t.Run("returns error for unknown permission", func(t *testing.T) {
		_, err := NewAuthorization(map[Role][]Permission{RoleDoctor: {"teleport"}}, nil)
		if err == nil {
			t.Error("Expected error for unknown permission")
		}
	})

	t.Run("succeeds with default table", func(t *testing.T) {
		auth, err := NewDefaultAuthorization(nil)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if auth == nil {
			t.Error("Expected non-nil authorization")
		}
	})
}

func TestHasPermission(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"receptionist may use billing", RoleReceptionist, PermBilling, true},
		{"receptionist may use waiting room", RoleReceptionist, PermWaitingRoom, true},
		{"receptionist denied system backup", RoleReceptionist, PermSystemBackup, false},
		{"doctor denied billing", RoleDoctor, PermBilling, false},
		{"doctor may use prescriptions", RoleDoctor, PermPrescriptions, true},
		{"stock manager may see statistics", RoleStockManager, PermStatistics, true},
		{"stock manager denied patients", RoleStockManager, PermPatients, false},
		{"lab agent may see lab results", RoleLabAgent, PermLabResults, true},
		{"photographer denied radiology", RolePhotographer, PermRadiology, false},
		{"medical admin granted known token", RoleAdminMedical, PermSystemBackup, true},
		{"medical admin granted unknown token", RoleAdminMedical, Permission("anything_at_all"), true},
		{"administrative admin granted roles page", RoleAdminAdministrative, PermRolesPermissions, true},
		{"unknown role denied", Role("unknown_role"), PermDashboard, false},
		{"unknown token denied for regular role", RoleDoctor, Permission("teleport"), false},
		{"empty token denied even for admin", RoleAdminMedical, "", false},
		{"wildcard token is not a request", RoleDoctor, WildcardPermission, false},
		{"empty role denied", "", PermDashboard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := auth.HasPermission(ctx, tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestHasPermission_MatchesTable(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	for role, perms := range RolePermissions {
		granted := make(map[Permission]bool, len(perms))
		for _, p := range perms {
			granted[p] = true
		}
		wildcard := granted[WildcardPermission]

		for _, p := range SortedPermissions() {
			want := wildcard || granted[p]
			if got := auth.HasPermission(ctx, role, p); got != want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", role, p, got, want)
			}
		}
	}
}

func TestMustHavePermission(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	t.Run("returns nil when allowed", func(t *testing.T) {
		if err := auth.MustHavePermission(ctx, RoleCallCenter, PermCallCenter); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("returns ErrForbidden when denied", func(t *testing.T) {
		err := auth.MustHavePermission(ctx, RoleCallCenter, PermBilling)
		if err != ErrForbidden {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

func TestHasRole(t *testing.T) {
	auth := newTestAuthorization(t)
	doctor := &mockPrincipal{userID: uuid.New(), role: string(RoleDoctor)}

	tests := []struct {
		name string
		p    Principal
		role Role
		want bool
	}{
		{"exact role matches", doctor, RoleDoctor, true},
		{"admin role is not implied", doctor, RoleAdminMedical, false},
		{"other role does not match", doctor, RoleReceptionist, false},
		{"nil principal", nil, RoleDoctor, false},
		{"empty role", doctor, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := auth.HasRole(tt.p, tt.role); got != tt.want {
				t.Errorf("HasRole() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("admin principal does not satisfy doctor", func(t *testing.T) {
		admin := &mockPrincipal{userID: uuid.New(), role: string(RoleAdminMedical)}
		if auth.HasRole(admin, RoleDoctor) {
			t.Error("Expected admin to fail HasRole(doctor)")
		}
		if !auth.HasPermission(context.Background(), Role(admin.GetRole()), PermPrescriptions) {
			t.Error("Expected admin to pass HasPermission via wildcard")
		}
	})
}

func TestPermissions(t *testing.T) {
	auth := newTestAuthorization(t)

	t.Run("wildcard role lists every token", func(t *testing.T) {
		got := auth.Permissions(RoleAdminAdministrative)
		if len(got) != len(KnownPermissions) {
			t.Errorf("Expected %d permissions, got %d", len(KnownPermissions), len(got))
		}
	})

	t.Run("regular role lists its table sorted", func(t *testing.T) {
		got := auth.Permissions(RoleAssistant)
		if len(got) != len(RolePermissions[RoleAssistant]) {
			t.Fatalf("Expected %d permissions, got %d", len(RolePermissions[RoleAssistant]), len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] > got[i] {
				t.Errorf("Permissions not sorted: %q before %q", got[i-1], got[i])
			}
		}
	})

	t.Run("unknown role has none", func(t *testing.T) {
		if got := auth.Permissions("ghost"); len(got) != 0 {
			t.Errorf("Expected no permissions, got %v", got)
		}
	})

	t.Run("wildcard detection", func(t *testing.T) {
		if !auth.IsWildcard(RoleAdminMedical) {
			t.Error("Expected admin_medical to be wildcard")
		}
		if auth.IsWildcard(RoleDoctor) {
			t.Error("Expected doctor not to be wildcard")
		}
	})
}

func TestAuditedAuthorization(t *testing.T) {
	inner := newTestAuthorization(t)
	auth := NewAuditedAuthorization(inner, nil)
	ctx := context.Background()

	if !auth.HasPermission(ctx, RoleReceptionist, PermWaitingRoom) {
		t.Error("Expected audited check to pass through grant")
	}
	if auth.HasPermission(ctx, RoleReceptionist, PermSystemBackup) {
		t.Error("Expected audited check to pass through denial")
	}
	if auth.MustHavePermission(ctx, RoleAssistant, PermBilling) != ErrForbidden {
		t.Error("Expected ErrForbidden from audited MustHavePermission")
	}
	if auth.Raw() != inner.Raw() {
		t.Error("Expected Raw() to expose the inner enforcer")
	}
}
