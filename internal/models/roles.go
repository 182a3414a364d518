package models

import (
	"sort"
	"strings"
)

// RoleSet is a bitset of the roles a user holds.
type RoleSet uint16

const (
	RoleClient RoleSet = 1 << iota
	RoleBarberJunior
	RoleBarber
	RoleBarberSenior
	RoleManager
	RoleAdmin
	RoleSuperAdmin
)

const (
	RolesBarber = RoleBarberJunior | RoleBarber | RoleBarberSenior
	RolesStaff  = RoleManager | RoleAdmin | RoleSuperAdmin
)

var roleNames = map[RoleSet]string{
	RoleClient:       "client",
	RoleBarberJunior: "barber_junior",
	RoleBarber:       "barber",
	RoleBarberSenior: "barber_senior",
	RoleManager:      "manager",
	RoleAdmin:        "admin",
	RoleSuperAdmin:   "super_admin",
}

// Tier is the barber seniority used to pick a procedure's price/duration variant.
type Tier string

const (
	TierNone     Tier = ""
	TierJunior   Tier = "junior"
	TierStandard Tier = "standard"
	TierSenior   Tier = "senior"
)

func (r RoleSet) Has(role RoleSet) bool {
	return r&role == role
}

func (r RoleSet) HasAny(roles RoleSet) bool {
	return r&roles != 0
}

func (r RoleSet) IsBarber() bool {
	return r.HasAny(RolesBarber)
}

func (r RoleSet) IsStaff() bool {
	return r.HasAny(RolesStaff)
}

// Tier returns the highest seniority the set grants.
func (r RoleSet) Tier() Tier {
	switch {
	case r.Has(RoleBarberSenior):
		return TierSenior
	case r.Has(RoleBarber):
		return TierStandard
	case r.Has(RoleBarberJunior):
		return TierJunior
	default:
		return TierNone
	}
}

func (r RoleSet) Names() []string {
	out := make([]string, 0, len(roleNames))
	for role, name := range roleNames {
		if r.Has(role) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (r RoleSet) String() string {
	return strings.Join(r.Names(), ",")
}

// ParseRoles ignores unknown names.
func ParseRoles(names []string) RoleSet {
	var r RoleSet
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for role, name := range roleNames {
			if name == n {
				r |= role
			}
		}
	}
	return r
}
