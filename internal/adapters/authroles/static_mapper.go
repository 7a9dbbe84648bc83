// Package authroles maps identity provider groups onto portal roles.
package authroles

import (
	"strings"

	"github.com/target/bizportal/config"
	domainauth "github.com/target/bizportal/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules.
// When a user belongs to several mapped groups the most privileged role wins:
// admin, then manager, then staff, then customer.
type StaticRoleMapper struct {
	AdminGroup    string
	ManagerGroup  string
	StaffGroup    string
	CustomerGroup string
}

// FromConfig builds a mapper from the AUTH_GROUP_* settings.
func FromConfig(g config.RoleGroups) StaticRoleMapper {
	return StaticRoleMapper{
		AdminGroup:    strings.TrimSpace(g.Admin),
		ManagerGroup:  strings.TrimSpace(g.Manager),
		StaffGroup:    strings.TrimSpace(g.Staff),
		CustomerGroup: strings.TrimSpace(g.Customer),
	}
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	member := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		member[strings.TrimSpace(g)] = struct{}{}
	}
	for _, rule := range []struct {
		group string
		role  domainauth.Role
	}{
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.ManagerGroup, domainauth.RoleManager},
		{m.StaffGroup, domainauth.RoleStaff},
		{m.CustomerGroup, domainauth.RoleCustomer},
	} {
		if rule.group == "" {
			continue
		}
		if _, ok := member[rule.group]; ok {
			return rule.role
		}
	}
	return domainauth.RoleNone
}
