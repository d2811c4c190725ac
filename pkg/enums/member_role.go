package enums

import (
	"fmt"
	"strings"
)

// MemberRole is the coarse capability level attached to a member.
type MemberRole string

const (
	MemberRoleUser  MemberRole = "user"
	MemberRoleAdmin MemberRole = "admin"
)

var validMemberRoles = []MemberRole{
	MemberRoleUser,
	MemberRoleAdmin,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role may mutate or remove any article.
func (m MemberRole) IsAdmin() bool {
	return m == MemberRoleAdmin
}

// ParseMemberRole converts raw input into a MemberRole. Matching ignores case
// and surrounding whitespace.
func ParseMemberRole(value string) (MemberRole, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validMemberRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
