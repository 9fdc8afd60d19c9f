package analyze

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpspGrasp/internal/project"
)

// sample: 0 -> 1(3) -> 2(2) -> 4, 0 -> 3(1) -> 4 и избыточная дуга 1 -> 4.
// Мощности: R0 = 2, R1 = 3.
func sample(t *testing.T) *project.Project {
	t.Helper()
	acts := []project.Activity{
		{ID: 0, Demand: []int{0, 0}},
		{ID: 1, Duration: 3, Demand: []int{2, 1}},
		{ID: 2, Duration: 2, Demand: []int{1, 1}},
		{ID: 3, Duration: 1, Demand: []int{0, 2}},
		{ID: 4, Demand: []int{0, 0}},
	}
	for _, a := range [][2]int{{0, 1}, {1, 2}, {2, 4}, {0, 3}, {3, 4}, {1, 4}} {
		project.Link(acts, a[0], a[1])
	}
	p, err := project.New(acts, []project.Resource{{ID: 0, Capacity: 2}, {ID: 1, Capacity: 3}})
	require.NoError(t, err)
	return p
}

func TestMetrics(t *testing.T) {
	a, err := New(sample(t))
	require.NoError(t, err)

	// Дуга 1 -> 4 избыточна: 1 -> 2 -> 4.
	assert.InDelta(t, 5.0/5.0, a.NetworkComplexity(), 1e-9)
	// Упорядочена только пара (1, 2) из трёх.
	assert.InDelta(t, 1.0/3.0, a.OrderStrength(), 1e-9)
	assert.InDelta(t, 5.0/6.0, a.ResourceFactor(), 1e-9)
	// R0: пик равен наибольшей потребности, ресурс не учитывается; R1: (3-2)/(3-2).
	assert.InDelta(t, 1.0, a.ResourceStrength(), 1e-9)
	assert.InDelta(t, (0.75+4.0/9.0)/2, a.ResourceConstrainedness(), 1e-9)

	v, err := a.Metric(CriticalPathLength)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestAnalyze_Order(t *testing.T) {
	p := sample(t)

	all, err := Analyze(p)
	require.NoError(t, err)
	require.Len(t, all, len(Names()))
	for i, name := range Names() {
		assert.Equal(t, name, all[i].Name)
	}

	some, err := Analyze(p, ResourceFactor, CriticalPathLength)
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, ResourceFactor, some[0].Name)
	assert.Equal(t, 5.0, some[1].Value)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze(sample(t), "density")
	require.Error(t, err)

	_, err = Analyze(&project.Project{})
	require.ErrorIs(t, err, project.ErrInfeasibleNetwork)
}

func TestMean_SkipsUndefined(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 3, math.NaN(), math.Inf(1)}))
	assert.Equal(t, 0.0, mean(nil))
}
