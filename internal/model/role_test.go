package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"adopter", "volunteer", "staff"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	for _, invalid := range []string{"", "admin", "Adopter", "staff_members"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestRoleTableName(t *testing.T) {
	assert.Equal(t, "adopters", RoleAdopter.TableName())
	assert.Equal(t, "volunteers", RoleVolunteer.TableName())
	assert.Equal(t, "staff_members", RoleStaff.TableName())
}

func TestRoleDefaultStatus(t *testing.T) {
	assert.Equal(t, StatusActive, RoleAdopter.DefaultStatus())
	assert.Equal(t, StatusPending, RoleVolunteer.DefaultStatus())
	assert.Equal(t, StatusActive, RoleStaff.DefaultStatus())
}

func TestBuildConsents(t *testing.T) {
	consents := BuildConsents([]string{"agreed_terms", "custom_key"})
	assert.Len(t, consents, 2)
	assert.Equal(t, "Terms of Service and Privacy Policy", consents[0].Type)
	assert.Equal(t, "custom_key", consents[1].Type)
	for _, c := range consents {
		assert.True(t, c.Granted)
		assert.False(t, c.GrantedAt.IsZero())
	}
}
