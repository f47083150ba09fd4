package models

import (
	"fmt"
	"strings"
)

// Role is a closed, totally ordered privilege level. A higher value holds
// every permission of the lower ones.
type Role int

const (
	RoleViewer Role = iota
	RoleContributor
	RoleManager
	RoleAdmin
)

var roleNames = [...]string{
	RoleViewer:      "Viewer",
	RoleContributor: "Contributor",
	RoleManager:     "Manager",
	RoleAdmin:       "Admin",
}

func (r Role) String() string {
	if !r.valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

func (r Role) valid() bool {
	return r >= RoleViewer && r <= RoleAdmin
}

// AtLeast reports whether r carries the privileges of required.
func (r Role) AtLeast(required Role) bool {
	return r >= required
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, ErrInvalidRole
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole matches s against the role names, ignoring case.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Role(i), nil
		}
	}
	return RoleViewer, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func IsValidRole(s string) bool {
	_, err := ParseRole(s)
	return err == nil
}

// HasPermission compares two role names. Unknown names never grant anything.
func HasPermission(userRole, requiredRole string) bool {
	u, err := ParseRole(userRole)
	if err != nil {
		return false
	}
	r, err := ParseRole(requiredRole)
	if err != nil {
		return false
	}
	return u.AtLeast(r)
}
