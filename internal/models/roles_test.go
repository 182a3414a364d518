package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSet_Tier(t *testing.T) {
	tests := []struct {
		name  string
		roles RoleSet
		want  Tier
	}{
		{"client", RoleClient, TierNone},
		{"junior", RoleBarberJunior, TierJunior},
		{"standard", RoleBarber, TierStandard},
		{"senior wins", RoleBarberSenior | RoleBarberJunior, TierSenior},
		{"manager only", RoleManager, TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.roles.Tier())
		})
	}
}

func TestRoleSet_NamesRoundTrip(t *testing.T) {
	r := RoleBarber | RoleManager

	assert.Equal(t, []string{"barber", "manager"}, r.Names())
	assert.Equal(t, r, ParseRoles(r.Names()))
	assert.Equal(t, RoleClient, ParseRoles([]string{" Client ", "unknown"}))
	assert.True(t, r.IsBarber())
	assert.True(t, r.IsStaff())
	assert.False(t, RoleClient.IsStaff())
}

func TestProcedure_VariantByTier(t *testing.T) {
	p := Procedure{PriceMaster: 30, DurationMaster: 45, PriceJunior: 20, DurationJunior: 60}

	assert.Equal(t, 60, p.DurationFor(TierJunior))
	assert.Equal(t, 45, p.DurationFor(TierStandard))
	assert.Equal(t, 45, p.DurationFor(TierSenior))
	assert.Equal(t, 20.0, p.PriceFor(TierJunior))
	assert.Equal(t, 30.0, p.PriceFor(TierSenior))
}
