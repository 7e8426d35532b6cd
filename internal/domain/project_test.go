package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAlias_FromName(t *testing.T) {
	assert.Equal(t, "website-relaun", DeriveAlias("Website Relaunch 2025", ""))
	assert.Equal(t, "blog", DeriveAlias("  Blog", ""))
	assert.Equal(t, "q3-push", DeriveAlias("Q3   Push", ""))
}

func TestDeriveAlias_ShortNameDoesNotPanic(t *testing.T) {
	assert.Equal(t, "ads", DeriveAlias("Ads", "  "))
}

func TestDeriveAlias_KeepsSuppliedAlias(t *testing.T) {
	assert.Equal(t, "My-Alias", DeriveAlias("Whatever name", "My Alias"))
}

func TestValidateAlias(t *testing.T) {
	p := &Project{Alias: "fifteen-chars-x"}
	require.NoError(t, p.ValidateAlias())

	p.Alias = "sixteen-chars-xx"
	err := p.ValidateAlias()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "15")
}
