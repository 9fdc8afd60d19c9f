package grasp

import (
	"math/rand"
	"sort"

	"srcpspGrasp/internal/project"
)

// constructor строит новые порядки работ, добавляя по одной допустимой работе
// (все предшественники которой уже размещены) согласно текущему ориентиру.
type constructor struct {
	proj    *project.Project
	lf      []int
	minHold int
	maxHold int
	rng     *rand.Rand

	// Вспомогательные буферы
	remaining []int  // число неразмещённых предшественников
	eligible  []bool // работа входит во фронт
	frontier  []int  // допустимые работы по возрастанию ID
	sequence  []int

	// Статистика последнего построения
	ruleSteps [ruleElite + 1]int
	fallbacks int
}

func newConstructor(p *project.Project, minHold, maxHold int, rng *rand.Rand) *constructor {
	n := p.Size()
	return &constructor{
		proj:      p,
		lf:        p.Timing().LatestFinish,
		minHold:   minHold,
		maxHold:   maxHold,
		rng:       rng,
		remaining: make([]int, n),
		eligible:  make([]bool, n),
		frontier:  make([]int, 0, n),
		sequence:  make([]int, 0, n),
	}
}

// construct возвращает новый допустимый по предшествованию порядок всех работ.
// Возвращаемый срез переиспользуется следующим вызовом.
func (c *constructor) construct(probs probabilities, pool *Pool) []int {
	n := c.proj.Size()
	for i, a := range c.proj.Activities {
		c.remaining[i] = len(a.Predecessors)
		c.eligible[i] = false
	}
	c.frontier = c.frontier[:0]
	c.sequence = c.sequence[:0]
	c.ruleSteps = [ruleElite + 1]int{}
	c.fallbacks = 0

	src := c.proj.Source()
	c.frontier = append(c.frontier, src)
	c.eligible[src] = true

	var ref reference
	hold := 0
	for step := 0; step < n; step++ {
		if hold == 0 {
			ref = drawReference(probs, pool, c.rng)
			if ref.fallback {
				c.fallbacks++
			}
			hold = c.minHold + c.rng.Intn(c.maxHold-c.minHold+1)
		}
		hold--

		idx := c.pick(ref)
		c.ruleSteps[ref.rule]++
		c.place(idx)
	}
	return c.sequence
}

// pick возвращает индекс выбранной работы во фронте.
func (c *constructor) pick(ref reference) int {
	switch ref.rule {
	case ruleLFT:
		best := 0
		for i := 1; i < len(c.frontier); i++ {
			if c.lf[c.frontier[i]] < c.lf[c.frontier[best]] {
				best = i
			}
		}
		return best
	case ruleElite:
		for i := 0; i < ref.elite.Len(); i++ {
			id := ref.elite.At(i)
			if c.eligible[id] {
				return sort.SearchInts(c.frontier, id)
			}
		}
		// Элитное решение содержит все работы, сюда попасть нельзя.
		return 0
	default:
		return c.rng.Intn(len(c.frontier))
	}
}

// place размещает работу frontier[idx] и обновляет фронт.
func (c *constructor) place(idx int) {
	id := c.frontier[idx]
	c.frontier = append(c.frontier[:idx], c.frontier[idx+1:]...)
	c.eligible[id] = false
	c.sequence = append(c.sequence, id)

	for _, s := range c.proj.Activities[id].Successors {
		c.remaining[s]--
		if c.remaining[s] == 0 {
			pos := sort.SearchInts(c.frontier, s)
			c.frontier = append(c.frontier, 0)
			copy(c.frontier[pos+1:], c.frontier[pos:])
			c.frontier[pos] = s
			c.eligible[s] = true
		}
	}
}
