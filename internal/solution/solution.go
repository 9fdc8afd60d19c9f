// Package solution — порядок работ (activity list) и его оценки.
package solution

import (
	"github.com/pkg/errors"
)

type cached struct {
	ok bool
	v  float64
}

// Solution — упорядоченный список всех работ проекта.
// Solution владеет своей последовательностью; оценки вычисляются один раз и кэшируются.
type Solution struct {
	est *Estimator
	seq []int

	makespan cached
	expected cached
	trueMean cached
}

// New создаёт решение из копии seq и проверяет его допустимость по предшествованию.
func New(est *Estimator, seq []int) (*Solution, error) {
	if est == nil {
		return nil, errors.New("оценщик не задан (nil)")
	}
	if err := est.Project().ValidateOrder(seq); err != nil {
		return nil, err
	}
	return newUnchecked(est, seq), nil
}

func newUnchecked(est *Estimator, seq []int) *Solution {
	own := make([]int, len(seq))
	copy(own, seq)
	return &Solution{est: est, seq: own}
}

// Len — количество работ в решении.
func (s *Solution) Len() int { return len(s.seq) }

// At возвращает ID работы на позиции i.
func (s *Solution) At(i int) int { return s.seq[i] }

// Sequence возвращает копию последовательности работ.
func (s *Solution) Sequence() []int {
	out := make([]int, len(s.seq))
	copy(out, s.seq)
	return out
}

// Invert возвращает новое независимое решение с обратным порядком работ.
// Обращённый порядок, как правило, нарушает предшествование и служит только
// ориентиром при построении новых решений.
func (s *Solution) Invert() *Solution {
	inv := make([]int, len(s.seq))
	for i, v := range s.seq {
		inv[len(s.seq)-1-i] = v
	}
	return &Solution{est: s.est, seq: inv}
}

// Makespan — длительность расписания при номинальных длительностях.
func (s *Solution) Makespan() (int, error) {
	if !s.makespan.ok {
		ms, err := s.est.Nominal(s.seq)
		if err != nil {
			return 0, err
		}
		s.makespan = cached{ok: true, v: float64(ms)}
	}
	return int(s.makespan.v), nil
}

// ExpectedMakespan — средняя длительность по малому числу репликаций (по умолчанию 10).
func (s *Solution) ExpectedMakespan() (float64, error) {
	return s.estimate(&s.expected, s.est.replications)
}

// TrueMakespan — средняя длительность по большому числу репликаций (по умолчанию 1000).
func (s *Solution) TrueMakespan() (float64, error) {
	return s.estimate(&s.trueMean, s.est.trueReplications)
}

func (s *Solution) estimate(c *cached, n int) (float64, error) {
	if c.ok {
		return c.v, nil
	}
	v, err := s.est.Mean(s.seq, n)
	if err != nil {
		return 0, err
	}
	*c = cached{ok: true, v: v}
	return v, nil
}
