package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/grasp"
)

func TestPresets_Defaults(t *testing.T) {
	base := grasp.DefaultConfig()
	got := presets(base)

	assert.Equal(t, []string{"custom", "exponential", "exponential_inverse", "uniform", "uniform_inverse"}, keys(got))
	assert.Equal(t, base, got["custom"])

	inv := got["uniform_inverse"]
	assert.Equal(t, distribution.KindUniformSqrt, inv.Distribution)
	assert.Zero(t, inv.PRandom)
	assert.Equal(t, 0.05, inv.PInverse)
	for name, cfg := range got {
		require.NoError(t, cfg.Validate(), name)
	}
}

func TestPresets_FlagOverridesApplyToEveryPreset(t *testing.T) {
	overrides := []override{
		func(c *grasp.Config) { c.PLFT = 0.2 },
		func(c *grasp.Config) { c.PInverse = 0.3 },
		func(c *grasp.Config) { c.PoolSize = 7 },
	}
	got := presets(grasp.DefaultConfig(), overrides...)

	for name, cfg := range got {
		assert.Equal(t, 0.2, cfg.PLFT, name)
		assert.Equal(t, 0.3, cfg.PInverse, name)
		assert.Equal(t, 7, cfg.PoolSize, name)
	}
	// Незатронутые флагами значения пресета сохраняются.
	assert.Equal(t, distribution.KindExponential, got["exponential"].Distribution)
	assert.Equal(t, 0.05, got["exponential"].PRandom)
	assert.Zero(t, got["exponential_inverse"].PRandom)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b ,"))
	assert.Nil(t, splitCSV(""))
}
