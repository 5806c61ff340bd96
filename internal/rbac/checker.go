package rbac

import "strings"

// Policy maps a role to permission patterns. A pattern is an exact
// permission ("datasets:reload"), a resource wildcard ("datasets:*") or "*".
type Policy map[string][]string

// Allows reports whether role holds perm.
func (p Policy) Allows(role, perm string) bool {
	for _, pattern := range p[role] {
		if grants(pattern, perm) {
			return true
		}
	}
	return false
}

// AllowsAny reports whether role holds at least one of perms.
func (p Policy) AllowsAny(role string, perms ...string) bool {
	for _, perm := range perms {
		if p.Allows(role, perm) {
			return true
		}
	}
	return false
}

func grants(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	resource, ok := strings.CutSuffix(pattern, ":*")
	return ok && strings.HasPrefix(perm, resource+":")
}
