package authorize

import "sort"

type Role string
type Permission string

// ----------------------------
// Roles
// ----------------------------

const (
	RoleAdminMedical        Role = "admin_medical"
	RoleAdminAdministrative Role = "admin_administrative"
	RoleDoctor              Role = "doctor"
	RoleReceptionist        Role = "receptionist"
	RoleAssistant           Role = "assistant"
	RoleCallCenter          Role = "call_center"
	RoleRadiologist         Role = "radiologist"
	RolePhotographer        Role = "photograph"
	RoleLabAgent            Role = "lab_agent"
	RoleStockManager        Role = "stock_manager"
)

var KnownRoles = map[Role]struct{}{
	RoleAdminMedical: {}, RoleAdminAdministrative: {},
	RoleDoctor: {}, RoleReceptionist: {}, RoleAssistant: {}, RoleCallCenter: {},
	RoleRadiologist: {}, RolePhotographer: {}, RoleLabAgent: {}, RoleStockManager: {},
}

// French display names, as shown in the staff UI
var RoleDisplayNamesFR = map[Role]string{
	RoleAdminMedical:        "Administrateur médical",
	RoleAdminAdministrative: "Administrateur administratif",
	RoleDoctor:              "Médecin",
	RoleReceptionist:        "Réceptionniste",
	RoleAssistant:           "Assistant(e)",
	RoleCallCenter:          "Centre d'appels",
	RoleRadiologist:         "Radiologue",
	RolePhotographer:        "Photographe",
	RoleLabAgent:            "Agent de laboratoire",
	RoleStockManager:        "Gestionnaire de stock",
}

// ----------------------------
// Permissions (feature areas)
// ----------------------------

const (
	// WildcardPermission grants every feature area.
	WildcardPermission Permission = "*"

	PermDashboard           Permission = "dashboard"
	PermPatients            Permission = "patients"
	PermAppointments        Permission = "appointments"
	PermWaitingRoom         Permission = "waiting_room"
	PermMedicalFiles        Permission = "medical_files"
	PermConsultationHistory Permission = "consultation_history"
	PermPrescriptions       Permission = "prescriptions"
	PermLabResults          Permission = "lab_results"
	PermRadiology           Permission = "radiology"
	PermCaseImages          Permission = "case_images"
	PermBilling             Permission = "billing"
	PermMyPayments          Permission = "my_payments"
	PermInventory           Permission = "inventory"
	PermMedicationScanner   Permission = "medication_scanner"
	PermMessages            Permission = "messages"
	PermNotifications       Permission = "notifications"
	PermCallLog             Permission = "call_log"
	PermCallCenter          Permission = "call_center"
	PermStaff               Permission = "staff"
	PermRolesPermissions    Permission = "roles_permissions"
	PermStatistics          Permission = "statistics"
	PermPatientFeedback     Permission = "patient_feedback"
	PermRoomManagement      Permission = "room_management"
	PermMySchedule          Permission = "my_schedule"
	PermSettings            Permission = "settings"
	PermSystemBackup        Permission = "system_backup"
	PermSync                Permission = "sync"
	PermMyProfile           Permission = "my_profile"
	PermChangePassword      Permission = "change_password"
)

var KnownPermissions = map[Permission]struct{}{
	PermDashboard: {}, PermPatients: {}, PermAppointments: {}, PermWaitingRoom: {},
	PermMedicalFiles: {}, PermConsultationHistory: {}, PermPrescriptions: {},
	PermLabResults: {}, PermRadiology: {}, PermCaseImages: {},
	PermBilling: {}, PermMyPayments: {},
	PermInventory: {}, PermMedicationScanner: {},
	PermMessages: {}, PermNotifications: {}, PermCallLog: {}, PermCallCenter: {},
	PermStaff: {}, PermRolesPermissions: {}, PermStatistics: {}, PermPatientFeedback: {},
	PermRoomManagement: {}, PermMySchedule: {},
	PermSettings: {}, PermSystemBackup: {}, PermSync: {},
	PermMyProfile: {}, PermChangePassword: {},
}

// ----------------------------
// Role -> permission table
// ----------------------------
//
// Loaded into the enforcer once at startup and never mutated afterwards.

var RolePermissions = map[Role][]Permission{
	RoleAdminMedical:        {WildcardPermission},
	RoleAdminAdministrative: {WildcardPermission},

	RoleDoctor: {
		PermDashboard, PermPatients, PermAppointments, PermMedicalFiles, PermConsultationHistory,
		PermPrescriptions, PermLabResults, PermRadiology, PermCaseImages, PermMyPayments,
		PermMedicationScanner, PermMessages, PermNotifications, PermPatientFeedback,
		PermMySchedule, PermWaitingRoom, PermMyProfile, PermChangePassword,
	},

	RoleReceptionist: {
		PermDashboard, PermPatients, PermAppointments, PermBilling, PermWaitingRoom,
		PermCallLog, PermRoomManagement, PermMessages, PermNotifications,
		PermMyProfile, PermChangePassword,
	},

	RoleAssistant: {
		PermDashboard, PermPatients, PermMedicalFiles, PermConsultationHistory,
		PermMessages, PermNotifications, PermMyProfile, PermChangePassword,
	},

	RoleCallCenter: {
		PermDashboard, PermPatients, PermAppointments, PermCallLog, PermCallCenter,
		PermMessages, PermNotifications, PermMyProfile, PermChangePassword,
	},

	RoleRadiologist: {
		PermDashboard, PermPatients, PermRadiology, PermMedicalFiles, PermMessages,
		PermNotifications, PermMyProfile, PermChangePassword,
	},

	RolePhotographer: {
		PermDashboard, PermPatients, PermCaseImages, PermMedicalFiles, PermMessages,
		PermNotifications, PermMyProfile, PermChangePassword,
	},

	RoleLabAgent: {
		PermDashboard, PermPatients, PermLabResults, PermMedicalFiles, PermMessages,
		PermNotifications, PermMyProfile, PermChangePassword,
	},

	RoleStockManager: {
		PermDashboard, PermInventory, PermMedicationScanner, PermMessages,
		PermNotifications, PermStatistics, PermMyProfile, PermChangePassword,
	},
}

// IsKnownRole reports whether r is part of the closed role set.
func IsKnownRole(r Role) bool {
	_, ok := KnownRoles[r]
	return ok
}

// IsKnownPermission reports whether p is part of the closed token set.
func IsKnownPermission(p Permission) bool {
	_, ok := KnownPermissions[p]
	return ok
}

// SortedRoles returns every known role in lexical order.
func SortedRoles() []Role {
	out := make([]Role, 0, len(KnownRoles))
	for r := range KnownRoles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedPermissions returns every known permission token in lexical order.
func SortedPermissions() []Permission {
	out := make([]Permission, 0, len(KnownPermissions))
	for p := range KnownPermissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

// Permission rows: p, role, permission
type PermissionPolicy struct {
	Subject Role
	Object  Permission
}

// DefaultPolicies flattens RolePermissions into casbin policy rows.
func DefaultPolicies() []PermissionPolicy {
	var out []PermissionPolicy
	for _, role := range SortedRoles() {
		for _, perm := range RolePermissions[role] {
			out = append(out, PermissionPolicy{Subject: role, Object: perm})
		}
	}
	return out
}
