package models

import "strings"

// Principal is the authenticated identity resolved for a request. It is
// produced per request by the session resolver and never persisted. Role is
// the comma-separated role list as the identity authority returns it.
type Principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Roles splits the role field into individual trimmed role names.
func (p *Principal) Roles() []string {
	if p == nil || p.Role == "" {
		return nil
	}
	parts := strings.Split(p.Role, ",")
	roles := make([]string, 0, len(parts))
	for _, r := range parts {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasAnyRole reports whether the principal holds at least one of the
// allowed roles.
func (p *Principal) HasAnyRole(allowed ...string) bool {
	for _, have := range p.Roles() {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}
