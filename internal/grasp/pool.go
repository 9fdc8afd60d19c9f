package grasp

import (
	"math/rand"

	"srcpspGrasp/internal/solution"
)

type poolEntry struct {
	sol   *solution.Solution
	score float64
}

// Pool — элитный пул фиксированной ёмкости, упорядоченный по возрастанию оценки.
// При равных оценках раньше стоит решение, добавленное раньше.
type Pool struct {
	capacity int
	entries  []poolEntry
}

func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		panic("ёмкость пула должна быть > 0")
	}
	return &Pool{capacity: capacity, entries: make([]poolEntry, 0, capacity)}
}

func (p *Pool) Len() int { return len(p.entries) }

func (p *Pool) Cap() int { return p.capacity }

func (p *Pool) Full() bool { return len(p.entries) >= p.capacity }

// Add добавляет решение без сравнения с худшим. Возвращает false, если пул заполнен.
func (p *Pool) Add(sol *solution.Solution, score float64) bool {
	if p.Full() {
		return false
	}
	p.insert(sol, score)
	return true
}

// Offer добавляет решение, если в пуле есть место либо оценка строго лучше худшей;
// во втором случае худшее решение вытесняется.
func (p *Pool) Offer(sol *solution.Solution, score float64) bool {
	if !p.Full() {
		p.insert(sol, score)
		return true
	}
	if score >= p.entries[len(p.entries)-1].score {
		return false
	}
	p.entries = p.entries[:len(p.entries)-1]
	p.insert(sol, score)
	return true
}

func (p *Pool) insert(sol *solution.Solution, score float64) {
	i := len(p.entries)
	for i > 0 && p.entries[i-1].score > score {
		i--
	}
	p.entries = append(p.entries, poolEntry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = poolEntry{sol: sol, score: score}
}

// Best возвращает решение с наименьшей оценкой.
func (p *Pool) Best() (*solution.Solution, float64, bool) {
	if len(p.entries) == 0 {
		return nil, 0, false
	}
	e := p.entries[0]
	return e.sol, e.score, true
}

// Worst возвращает наибольшую оценку в пуле.
func (p *Pool) Worst() (float64, bool) {
	if len(p.entries) == 0 {
		return 0, false
	}
	return p.entries[len(p.entries)-1].score, true
}

// Sample возвращает равновероятно выбранное решение пула; nil для пустого пула.
func (p *Pool) Sample(rng *rand.Rand) *solution.Solution {
	if len(p.entries) == 0 {
		return nil
	}
	return p.entries[rng.Intn(len(p.entries))].sol
}

// Scores возвращает оценки членов пула по возрастанию.
func (p *Pool) Scores() []float64 {
	out := make([]float64, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.score
	}
	return out
}

// Members возвращает решения пула в порядке возрастания оценки.
func (p *Pool) Members() []*solution.Solution {
	out := make([]*solution.Solution, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.sol
	}
	return out
}
