package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/bizportal/config"
	domainauth "github.com/target/bizportal/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := FromConfig(config.RoleGroups{
		Admin:    "portal-admins",
		Manager:  " portal-managers ",
		Staff:    "portal-staff",
		Customer: "portal-customers",
	})

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"admin", []string{"portal-admins"}, domainauth.RoleAdmin},
		{"manager trimmed", []string{"portal-managers"}, domainauth.RoleManager},
		{"staff", []string{"x", "portal-staff"}, domainauth.RoleStaff},
		{"customer", []string{"portal-customers"}, domainauth.RoleCustomer},
		{"privilege order", []string{"portal-customers", "portal-staff", "portal-admins"}, domainauth.RoleAdmin},
		{"unmapped", []string{"engineering"}, domainauth.RoleNone},
		{"empty", nil, domainauth.RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_BlankGroupNeverMatches(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: ""}
	assert.Equal(t, domainauth.RoleNone, m.Map([]string{""}))
}
