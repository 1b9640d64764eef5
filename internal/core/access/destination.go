package access

import "github.com/99minutos/staff-portal/internal/core/domain"

// Destination is a named, routable view.
type Destination struct {
	Name   string
	Path   string
	Public bool
	Policy Policy
}

var (
	Login = Destination{
		Name:   "login",
		Path:   "/",
		Public: true,
	}
	AdminHome = Destination{
		Name:   "admin-home",
		Path:   "/admin",
		Policy: Only(domain.RoleAdmin),
	}
	EmployeeHome = Destination{
		Name:   "employee-home",
		Path:   "/employee",
		Policy: AnyAuthenticated(),
	}
)

// Destinations returns every destination the router knows about.
func Destinations() []Destination {
	return []Destination{Login, AdminHome, EmployeeHome}
}

// Home returns where a role belongs. Anonymous sessions belong on the login
// page.
func Home(role domain.Role) Destination {
	switch role {
	case domain.RoleAdmin:
		return AdminHome
	case domain.RoleEmployee:
		return EmployeeHome
	default:
		return Login
	}
}
