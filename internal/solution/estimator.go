package solution

import (
	"math/rand"

	"github.com/pkg/errors"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/project"
)

const (
	DefaultReplications     = 10
	DefaultTrueReplications = 1000
)

// Estimator оценивает длительность проекта для порядка работ:
// детерминированно по номинальным длительностям либо усреднением
// по случайным реализациям длительностей.
// Один Estimator обслуживает один запуск солвера и не безопасен для горутин.
type Estimator struct {
	eval    *project.Evaluator
	sampler distribution.Sampler
	rng     *rand.Rand

	replications     int
	trueReplications int

	nominal   []int
	durations []int
}

func NewEstimator(
	p *project.Project,
	sampler distribution.Sampler,
	rng *rand.Rand,
	replications, trueReplications int,
) (*Estimator, error) {
	if replications <= 0 || trueReplications <= 0 {
		return nil, errors.Errorf("число репликаций должно быть > 0 (получено %d и %d)", replications, trueReplications)
	}
	if rng == nil && !sampler.Deterministic() {
		return nil, errors.New("генератор случайных чисел не инициализирован (nil)")
	}
	eval, err := project.NewEvaluator(p)
	if err != nil {
		return nil, err
	}
	return &Estimator{
		eval:             eval,
		sampler:          sampler,
		rng:              rng,
		replications:     replications,
		trueReplications: trueReplications,
		nominal:          p.Durations(),
		durations:        make([]int, p.Size()),
	}, nil
}

func (e *Estimator) Project() *project.Project {
	return e.eval.Project()
}

func (e *Estimator) Sampler() distribution.Sampler {
	return e.sampler
}

// Nominal — длительность расписания при номинальных длительностях.
func (e *Estimator) Nominal(seq []int) (int, error) {
	return e.eval.Makespan(seq, e.nominal)
}

// Mean — среднее значение длительности расписания по n случайным реализациям.
func (e *Estimator) Mean(seq []int, n int) (float64, error) {
	if n <= 0 {
		return 0, errors.Errorf("число репликаций должно быть > 0 (получено %d)", n)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		e.sampler.Durations(e.durations, e.nominal, e.rng)
		ms, err := e.eval.Makespan(seq, e.durations)
		if err != nil {
			return 0, err
		}
		sum += float64(ms)
	}
	return sum / float64(n), nil
}
