package rbac

import (
	"fmt"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/resource"
)

// Action distinguishes read access from write access in the policy table.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Permission is one row of the static field-level policy table. AllowedFields
// supports one level of dotted nesting (parent.child).
type Permission struct {
	Role          models.UserRole
	Resource      string
	Action        Action
	OwnOnly       bool
	AllowedFields []string
}

// Policy is the read-only permission table, populated at process start.
type Policy struct {
	perms map[string]Permission
}

func permKey(role models.UserRole, res string, action Action) string {
	return string(role) + "|" + res + "|" + string(action)
}

// NewPolicy builds the lookup table. Later duplicate entries override earlier
// ones so composed tables stay predictable.
func NewPolicy(perms ...Permission) *Policy {
	p := &Policy{perms: make(map[string]Permission, len(perms))}
	for _, perm := range perms {
		p.perms[permKey(perm.Role, perm.Resource, perm.Action)] = perm
	}
	return p
}

// Lookup returns the permission entry for (role, resource, action).
func (p *Policy) Lookup(role models.UserRole, res string, action Action) (Permission, bool) {
	perm, ok := p.perms[permKey(role, res, action)]
	return perm, ok
}

// AllowedFields returns the allow-listed field paths for the given access.
// When the entry is scoped to owned records and the target is not the actor's
// own, the result is empty: field filtering then reduces the request to a
// no-op while the ownership check remains the enforcement point.
func (p *Policy) AllowedFields(role models.UserRole, res string, action Action, own bool) []string {
	perm, ok := p.Lookup(role, res, action)
	if !ok {
		return nil
	}
	if perm.OwnOnly && !own {
		return nil
	}
	return perm.AllowedFields
}

// Validate checks every permission entry against the registry: unknown
// resources or undeclared field paths fail startup instead of silently
// granting nothing.
func (p *Policy) Validate(reg *resource.Registry) error {
	for _, perm := range p.perms {
		desc, ok := reg.Get(perm.Resource)
		if !ok {
			return fmt.Errorf("rbac: permission references unknown resource %q", perm.Resource)
		}
		for _, path := range perm.AllowedFields {
			parent, _ := splitPath(path)
			if _, ok := desc.Field(parent); !ok {
				return fmt.Errorf("rbac: %s/%s/%s allows undeclared field %q",
					perm.Role, perm.Resource, perm.Action, path)
			}
		}
	}
	return nil
}
