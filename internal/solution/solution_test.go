package solution

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/project"
)

// twoParallel: источник -> {1(2), 2(2)} -> сток, мощность 1.
func twoParallel(t *testing.T) *project.Project {
	t.Helper()
	acts := []project.Activity{
		{ID: 0, Demand: []int{0}},
		{ID: 1, Duration: 2, Demand: []int{1}},
		{ID: 2, Duration: 2, Demand: []int{1}},
		{ID: 3, Demand: []int{0}},
	}
	project.Link(acts, 0, 1)
	project.Link(acts, 0, 2)
	project.Link(acts, 1, 3)
	project.Link(acts, 2, 3)
	p, err := project.New(acts, []project.Resource{{ID: 0, Capacity: 1}})
	require.NoError(t, err)
	return p
}

func estimator(t *testing.T, p *project.Project, kind distribution.Kind, seed int64) *Estimator {
	t.Helper()
	est, err := NewEstimator(p, distribution.MustGet(kind), rand.New(rand.NewSource(seed)),
		DefaultReplications, DefaultTrueReplications)
	require.NoError(t, err)
	return est
}

func TestNew_RejectsInvalidOrder(t *testing.T) {
	est := estimator(t, twoParallel(t), distribution.KindNone, 1)

	_, err := New(est, []int{1, 0, 2, 3})
	require.ErrorIs(t, err, project.ErrInvalidSchedule)

	_, err = New(est, []int{0, 1, 2})
	require.Error(t, err)

	_, err = New(nil, []int{0, 1, 2, 3})
	require.Error(t, err)
}

func TestNew_OwnsSequence(t *testing.T) {
	est := estimator(t, twoParallel(t), distribution.KindNone, 1)
	seq := []int{0, 2, 1, 3}
	s, err := New(est, seq)
	require.NoError(t, err)

	seq[1] = 1
	assert.Equal(t, []int{0, 2, 1, 3}, s.Sequence())

	out := s.Sequence()
	out[0] = 3
	assert.Equal(t, 0, s.At(0))
	assert.Equal(t, 4, s.Len())
}

func TestInvert(t *testing.T) {
	est := estimator(t, twoParallel(t), distribution.KindNone, 1)
	s, err := New(est, []int{0, 2, 1, 3})
	require.NoError(t, err)

	inv := s.Invert()
	assert.Equal(t, []int{3, 1, 2, 0}, inv.Sequence())
	assert.Equal(t, s.Sequence(), inv.Invert().Sequence())
	assert.Equal(t, []int{0, 2, 1, 3}, s.Sequence())
}

func TestDegenerateEstimatesAgree(t *testing.T) {
	est := estimator(t, twoParallel(t), distribution.KindDegenerate, 1)
	s, err := New(est, []int{0, 1, 2, 3})
	require.NoError(t, err)

	ms, err := s.Makespan()
	require.NoError(t, err)
	assert.Equal(t, 4, ms)

	exp, err := s.ExpectedMakespan()
	require.NoError(t, err)
	assert.Equal(t, 4.0, exp)

	tr, err := s.TrueMakespan()
	require.NoError(t, err)
	assert.Equal(t, 4.0, tr)
}

func TestEstimatesAreCached(t *testing.T) {
	est := estimator(t, twoParallel(t), distribution.KindExponential, 9)
	s, err := New(est, []int{0, 1, 2, 3})
	require.NoError(t, err)

	first, err := s.ExpectedMakespan()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.ExpectedMakespan()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.GreaterOrEqual(t, first, 0.0)
}

func TestEstimatesReproducibleForSeed(t *testing.T) {
	p := twoParallel(t)
	a, err := New(estimator(t, p, distribution.KindUniform2, 42), []int{0, 2, 1, 3})
	require.NoError(t, err)
	b, err := New(estimator(t, p, distribution.KindUniform2, 42), []int{0, 2, 1, 3})
	require.NoError(t, err)

	ea, err := a.TrueMakespan()
	require.NoError(t, err)
	eb, err := b.TrueMakespan()
	require.NoError(t, err)
	assert.Equal(t, ea, eb)
	// Для uniform_2 средняя длительность работы около номинальной, а работы идут последовательно.
	assert.InDelta(t, 3.0, ea, 0.5)
}

func TestNewEstimator_Errors(t *testing.T) {
	p := twoParallel(t)

	_, err := NewEstimator(p, distribution.MustGet(distribution.KindNone), nil, 0, 1)
	require.Error(t, err)

	_, err = NewEstimator(p, distribution.MustGet(distribution.KindExponential), nil, 1, 1)
	require.Error(t, err)

	est, err := NewEstimator(p, distribution.MustGet(distribution.KindNone), nil, 1, 1)
	require.NoError(t, err)
	assert.Same(t, p, est.Project())
	assert.True(t, est.Sampler().Deterministic())

	_, err = est.Mean([]int{0, 1, 2, 3}, 0)
	require.Error(t, err)
}
