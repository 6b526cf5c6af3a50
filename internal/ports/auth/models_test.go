package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"COMPANY", RoleCompany, true},
		{"empresa", RoleCompany, true},
		{" individual ", RoleIndividual, true},
		{"USUARIO", RoleIndividual, true},
		{"admin", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNormalizeProvince(t *testing.T) {
	p, ok := NormalizeProvince("madrid")
	assert.True(t, ok)
	assert.Equal(t, "Madrid", p)

	p, ok = NormalizeProvince("  ciudad real ")
	assert.True(t, ok)
	assert.Equal(t, "Ciudad Real", p)

	_, ok = NormalizeProvince("Atlantis")
	assert.False(t, ok)

	assert.Len(t, Provinces(), 52)
}
