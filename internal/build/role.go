package build

import (
	"fmt"
	"strings"
)

// Role is a lane assignment. The numeric values match the vendor's role keys.
type Role int

const (
	RoleUnknown Role = 0
	RoleJungle  Role = 1
	RoleSupport Role = 2
	RoleBottom  Role = 3
	RoleTop     Role = 4
	RoleMid     Role = 5
)

var roleNames = map[Role]string{
	RoleUnknown: "Unknown",
	RoleJungle:  "Jungle",
	RoleSupport: "Support",
	RoleBottom:  "Bottom",
	RoleTop:     "Top",
	RoleMid:     "Mid",
}

// RoleFromKey converts a vendor role key to a Role. Unrecognized keys map to RoleUnknown.
func RoleFromKey(key int) Role {
	r := Role(key)
	if _, ok := roleNames[r]; !ok {
		return RoleUnknown
	}
	return r
}

// RoleFromPosition converts a client position string ("top", "UTILITY", ...) to a Role
func RoleFromPosition(position string) Role {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "top":
		return RoleTop
	case "jungle":
		return RoleJungle
	case "middle", "mid":
		return RoleMid
	case "bottom", "adc":
		return RoleBottom
	case "utility", "support":
		return RoleSupport
	default:
		return RoleUnknown
	}
}

// ParseRole parses the display name produced by String.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

// Next advances to the following role in Jungle..Mid order.
// Returns false when already at the last role.
func (r *Role) Next() bool {
	if *r < RoleMid {
		*r = RoleFromKey(int(*r) + 1)
		return true
	}
	return false
}

// Previous moves to the preceding role. Returns false at Jungle or Unknown.
func (r *Role) Previous() bool {
	if *r > RoleJungle {
		*r = RoleFromKey(int(*r) - 1)
		return true
	}
	return false
}

// MarshalText encodes the role by name so persisted catalogs stay readable
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
