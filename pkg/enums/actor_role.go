package enums

import "fmt"

// ActorRole identifies the capability a token asserts.
type ActorRole string

const (
	ActorRoleVendor   ActorRole = "VENDOR"
	ActorRoleCustomer ActorRole = "CUSTOMER"
	ActorRoleAdmin    ActorRole = "ADMIN"
)

var validActorRoles = []ActorRole{
	ActorRoleVendor,
	ActorRoleCustomer,
	ActorRoleAdmin,
}

// String implements fmt.Stringer.
func (r ActorRole) String() string {
	return string(r)
}

// IsValid reports whether the role is recognized.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts a raw string into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
