// Package analyze вычисляет структурные показатели сети работ,
// используемые только для отчётов.
package analyze

import (
	"math"

	"github.com/pkg/errors"

	"srcpspGrasp/internal/project"
)

type Name string

const (
	NetworkComplexity       Name = "network_complexity"
	OrderStrength           Name = "order_strength"
	CriticalPathLength      Name = "critical_path_length"
	ResourceFactor          Name = "resource_factor"
	ResourceStrength        Name = "resource_strength"
	ResourceConstrainedness Name = "resource_constrainedness"
)

// Names — все показатели в порядке вывода по умолчанию.
func Names() []Name {
	return []Name{
		NetworkComplexity,
		OrderStrength,
		CriticalPathLength,
		ResourceFactor,
		ResourceStrength,
		ResourceConstrainedness,
	}
}

type Metric struct {
	Name  Name
	Value float64
}

// Analyzer кэширует общие для показателей промежуточные данные проекта.
type Analyzer struct {
	p     *project.Project
	reach [][]bool
}

func New(p *project.Project) (*Analyzer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{p: p}, nil
}

// Analyze вычисляет перечисленные показатели (по умолчанию все) в заданном порядке.
func Analyze(p *project.Project, names ...Name) ([]Metric, error) {
	a, err := New(p)
	if err != nil {
		return nil, err
	}
	return a.Analyze(names...)
}

func (a *Analyzer) Analyze(names ...Name) ([]Metric, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		v, err := a.Metric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Metric{Name: name, Value: v})
	}
	return out, nil
}

func (a *Analyzer) Metric(name Name) (float64, error) {
	switch name {
	case NetworkComplexity:
		return a.NetworkComplexity(), nil
	case OrderStrength:
		return a.OrderStrength(), nil
	case CriticalPathLength:
		return float64(a.p.CriticalPathLength()), nil
	case ResourceFactor:
		return a.ResourceFactor(), nil
	case ResourceStrength:
		return a.ResourceStrength(), nil
	case ResourceConstrainedness:
		return a.ResourceConstrainedness(), nil
	default:
		return 0, errors.Errorf("неизвестный показатель %q", name)
	}
}

func (a *Analyzer) reachability() [][]bool {
	if a.reach == nil {
		_, a.reach = a.p.LongestPaths()
	}
	return a.reach
}

// NetworkComplexity — число неизбыточных дуг предшествования (после транзитивной
// редукции), отнесённое к числу работ.
func (a *Analyzer) NetworkComplexity() float64 {
	reach := a.reachability()
	arcs := 0
	for _, act := range a.p.Activities {
		i := act.ID
		for _, j := range act.Successors {
			redundant := false
			for k := range a.p.Activities {
				if k != i && k != j && reach[i][k] && reach[k][j] {
					redundant = true
					break
				}
			}
			if !redundant {
				arcs++
			}
		}
	}
	return float64(arcs) / float64(a.p.Size())
}

// OrderStrength — доля упорядоченных (транзитивно) пар среди всех пар реальных работ.
func (a *Analyzer) OrderStrength() float64 {
	reach := a.reachability()
	src, sink := a.p.Source(), a.p.Sink()
	m := a.p.Size() - 2
	if m < 2 {
		return 0
	}
	pairs := 0
	for i := range reach {
		if i == src || i == sink {
			continue
		}
		for j := range reach[i] {
			if j != i && j != src && j != sink && reach[i][j] {
				pairs++
			}
		}
	}
	return float64(pairs) / (float64(m) * float64(m-1) / 2)
}

// ResourceFactor — средняя доля ресурсов, используемых реальной работой.
func (a *Analyzer) ResourceFactor() float64 {
	m := a.p.Size() - 2
	k := len(a.p.Resources)
	if m <= 0 || k == 0 {
		return 0
	}
	used := 0
	for _, act := range a.p.Activities {
		for _, q := range act.Demand {
			if q > 0 {
				used++
			}
		}
	}
	return float64(used) / float64(m) / float64(k)
}

// ResourceStrength — (мощность − наибольшая потребность одной работы) /
// (пиковое потребление в раннем расписании − наибольшая потребность одной работы),
// усреднённое по ресурсам. Ресурсы с нулевым знаменателем в среднее не входят.
func (a *Analyzer) ResourceStrength() float64 {
	t := a.p.Timing()
	src, sink := a.p.Source(), a.p.Sink()
	var values []float64
	for _, res := range a.p.Resources {
		r := res.ID
		kmin, kmax := 0, 0
		for _, act := range a.p.Activities {
			if q := a.p.Demand(act.ID, r); q > kmin {
				kmin = q
			}
			peak := 0
			at := t.EarliestStart[act.ID]
			for _, other := range a.p.Activities {
				j := other.ID
				if j == src || j == sink {
					continue
				}
				if t.EarliestStart[j] <= at && at < t.EarliestFinish[j] {
					peak += a.p.Demand(j, r)
				}
			}
			if peak > kmax {
				kmax = peak
			}
		}
		values = append(values, float64(res.Capacity-kmin)/float64(kmax-kmin))
	}
	return mean(values)
}

// ResourceConstrainedness — средняя потребность работ, использующих ресурс,
// отнесённая к его мощности и усреднённая по ресурсам.
func (a *Analyzer) ResourceConstrainedness() float64 {
	var values []float64
	for _, res := range a.p.Resources {
		sum, cnt := 0, 0
		for _, act := range a.p.Activities {
			if q := a.p.Demand(act.ID, res.ID); q > 0 {
				sum += q
				cnt++
			}
		}
		if cnt == 0 {
			continue
		}
		values = append(values, float64(sum)/float64(cnt)/float64(res.Capacity))
	}
	return mean(values)
}

// mean — среднее без NaN и бесконечностей; 0, если значимых элементов нет.
func mean(values []float64) float64 {
	sum, cnt := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		cnt++
	}
	if cnt == 0 {
		return 0
	}
	return sum / float64(cnt)
}
