package constants

const (
	Renter   = "RENTER"
	Landlord = "LANDLORD"
	Agent    = "AGENT"
	Admin    = "ADMIN"
)

// ValidRoles is the set of allowed values for Users.role.
var ValidRoles = []string{Renter, Landlord, Agent, Admin}

// SignupRoles are the roles a user may pick for themselves at signup.
var SignupRoles = []string{Renter, Landlord, Agent}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	return contains(ValidRoles, role)
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
