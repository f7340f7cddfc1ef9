package authorize

import "context"

// MenuItem is one entry of the staff navigation menu.
type MenuItem struct {
	Label      string     `json:"label"`
	Path       string     `json:"path"`
	Permission Permission `json:"permission"`
}

// MenuSection groups menu items under a heading.
type MenuSection struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Menu is the full navigation tree before filtering.
var Menu = []MenuSection{
	{Title: "Principal", Items: []MenuItem{
		{"Tableau de bord", "/dashboard", PermDashboard},
		{"Patients", "/patients", PermPatients},
		{"Rendez-vous", "/appointments", PermAppointments},
		{"Salle d'attente", "/waiting-room", PermWaitingRoom},
	}},
	{Title: "Médical", Items: []MenuItem{
		{"Dossiers médicaux", "/medical-files", PermMedicalFiles},
		{"Historique consultations", "/consultation-history", PermConsultationHistory},
		{"Prescriptions", "/prescriptions", PermPrescriptions},
		{"Résultats de labo", "/lab-results", PermLabResults},
		{"Radiologie", "/radiology", PermRadiology},
		{"Images de cas", "/case-images", PermCaseImages},
	}},
	{Title: "Financier", Items: []MenuItem{
		{"Facturation", "/billing", PermBilling},
		{"Mes paiements", "/my-payments", PermMyPayments},
	}},
	{Title: "Inventaire", Items: []MenuItem{
		{"Inventaire", "/inventory", PermInventory},
		{"Scanner médicaments", "/medication-scanner", PermMedicationScanner},
	}},
	{Title: "Communication", Items: []MenuItem{
		{"Messages internes", "/messages", PermMessages},
		{"Notifications", "/notifications", PermNotifications},
		{"Journal d'appels", "/call-log", PermCallLog},
		{"Centre d'appels", "/call-center", PermCallCenter},
	}},
	{Title: "Gestion", Items: []MenuItem{
		{"Personnel", "/staff", PermStaff},
		{"Rôles & permissions", "/roles-permissions", PermRolesPermissions},
		{"Gestion des cabinets", "/room-management", PermRoomManagement},
		{"Mon planning", "/my-schedule", PermMySchedule},
	}},
	{Title: "Rapports", Items: []MenuItem{
		{"Statistiques", "/statistics", PermStatistics},
		{"Évaluations patients", "/patient-feedback", PermPatientFeedback},
	}},
	{Title: "Système", Items: []MenuItem{
		{"Paramètres", "/settings", PermSettings},
		{"Sauvegarde système", "/system-backup", PermSystemBackup},
		{"Synchronisation", "/sync", PermSync},
	}},
	{Title: "Profil", Items: []MenuItem{
		{"Mon profil", "/my-profile", PermMyProfile},
		{"Changer mot de passe", "/change-password", PermChangePassword},
	}},
}

// FilterMenu returns the sections and items role may see. Empty sections are dropped.
func FilterMenu(ctx context.Context, auth IAuthorization, role Role) []MenuSection {
	out := make([]MenuSection, 0, len(Menu))
	for _, section := range Menu {
		var items []MenuItem
		for _, item := range section.Items {
			if auth.HasPermission(ctx, role, item.Permission) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, MenuSection{Title: section.Title, Items: items})
		}
	}
	return out
}

// PermissionForPath finds the token guarding a menu path.
func PermissionForPath(path string) (Permission, bool) {
	for _, section := range Menu {
		for _, item := range section.Items {
			if item.Path == path {
				return item.Permission, true
			}
		}
	}
	return "", false
}
