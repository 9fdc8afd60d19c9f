package grasp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/project"
	"srcpspGrasp/internal/solution"
)

// network собирает проект с одним ресурсом мощности capacity.
func network(t *testing.T, durations, demands []int, capacity int, arcs [][2]int) *project.Project {
	t.Helper()
	acts := make([]project.Activity, len(durations))
	for i, d := range durations {
		q := 0
		if i < len(demands) {
			q = demands[i]
		}
		acts[i] = project.Activity{ID: i, Duration: d, Demand: []int{q}}
	}
	for _, a := range arcs {
		project.Link(acts, a[0], a[1])
	}
	p, err := project.New(acts, []project.Resource{{ID: 0, Capacity: capacity}})
	require.NoError(t, err)
	return p
}

// fan: источник -> {1..k} -> сток, все работы длительности 2 с единичной потребностью.
func fan(t *testing.T, k, capacity int) *project.Project {
	t.Helper()
	durations := make([]int, k+2)
	demands := make([]int, k+2)
	var arcs [][2]int
	for i := 1; i <= k; i++ {
		durations[i] = 2
		demands[i] = 1
		arcs = append(arcs, [2]int{0, i}, [2]int{i, k + 1})
	}
	return network(t, durations, demands, capacity, arcs)
}

func deterministicEstimator(t *testing.T, p *project.Project) *solution.Estimator {
	t.Helper()
	est, err := solution.NewEstimator(p, distribution.MustGet(distribution.KindNone), rand.New(rand.NewSource(1)), 1, 1)
	require.NoError(t, err)
	return est
}

func mustSolution(t *testing.T, est *solution.Estimator, seq ...int) *solution.Solution {
	t.Helper()
	s, err := solution.New(est, seq)
	require.NoError(t, err)
	return s
}

// testConfig — небольшая конфигурация для быстрых тестов.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PoolSize = 5
	cfg.MaxSolutions = 60
	cfg.MaxStagnation = 1000
	cfg.Replications = 3
	cfg.TrueReplications = 10
	return cfg
}
