package grasp

import (
	"math/rand"

	"srcpspGrasp/internal/solution"
)

// rule — правило выбора работы из множества допустимых.
type rule int

const (
	// ruleLFT — работа с наименьшим поздним окончанием, при равенстве — с наименьшим ID.
	ruleLFT rule = iota
	// ruleRandom — равновероятный выбор.
	ruleRandom
	// ruleElite — первая допустимая работа в последовательности элитного решения.
	ruleElite
)

func (r rule) String() string {
	switch r {
	case ruleLFT:
		return "lft"
	case ruleRandom:
		return "random"
	case ruleElite:
		return "elite"
	default:
		return "unknown"
	}
}

// probabilities — пороги выбора ориентира.
type probabilities struct {
	lft, random, inverse float64
}

// reference — текущий ориентир построения.
// Для ruleElite elite содержит выбранное из пула решение, уже обращённое при inverted.
type reference struct {
	rule     rule
	elite    *solution.Solution
	inverted bool
	// fallback — ориентир выпал в элитную зону при пустом пуле.
	fallback bool
}

// drawReference разыгрывает ориентир: r < lft — LFT, далее random, затем
// обращённое элитное решение, остаток — элитное решение без обращения.
// При пустом пуле элитные зоны заменяются случайным выбором.
func drawReference(p probabilities, pool *Pool, rng *rand.Rand) reference {
	r := rng.Float64()
	switch {
	case r < p.lft:
		return reference{rule: ruleLFT}
	case r < p.lft+p.random:
		return reference{rule: ruleRandom}
	}

	inverted := r < p.lft+p.random+p.inverse
	if pool == nil || pool.Len() == 0 {
		return reference{rule: ruleRandom, fallback: true}
	}
	elite := pool.Sample(rng)
	if inverted {
		elite = elite.Invert()
	}
	return reference{rule: ruleElite, elite: elite, inverted: inverted}
}
