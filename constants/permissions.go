package constants

// User roles
const (
	RoleRenter = "renter"
	RolePIC    = "pic"
	RoleAdmin  = "admin"

	// Special role matching any authenticated user
	RoleAny = "any"
)

// Roles allowed to manage the topup catalog
var (
	CatalogAdminRoles = []string{
		RoleAdmin,
	}
)
