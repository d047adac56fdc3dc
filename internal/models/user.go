package models

// UserRole - роль сессии
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleCitizen UserRole = "CITIZEN"
)

// Токены разрешений
const (
	PermViewDashboard     = "view_dashboard"
	PermResolveIncident   = "resolve_incident"
	PermDispatchResources = "dispatch_resources"
	PermDeleteIncident    = "delete_incident"
	PermCreateReport      = "create_report"
	PermViewPublicAlerts  = "view_public_alerts"
)

// Permissions - статическая таблица роль -> набор разрешений.
// Неизменяемая конфигурация, не данные.
// delete_incident числится за админом, но операции удаления сервис не предоставляет.
var Permissions = map[UserRole][]string{
	RoleAdmin:   {PermViewDashboard, PermResolveIncident, PermDispatchResources, PermDeleteIncident},
	RoleCitizen: {PermCreateReport, PermViewPublicAlerts},
}

// User - идентичность сессии. Живет только вместе с сессией, не персистится.
type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       UserRole `json:"role"`
	Department string   `json:"department,omitempty"`
}
