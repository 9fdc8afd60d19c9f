package opt

import (
	"context"
	"time"

	"srcpspGrasp/internal/project"
	"srcpspGrasp/internal/solution"
)

type Optimizer interface {
	Solve(ctx context.Context, p *project.Project) (Result, error)
}

type Result struct {
	// Best — лучшее найденное решение; TrueMakespan считается по запросу.
	Best             *solution.Solution
	Permutation      []int
	Makespan         int
	ExpectedMakespan float64
	Evaluations      int
	Iterations       int
	Duration         time.Duration
	Meta             map[string]any
}
