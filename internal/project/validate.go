package project

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate проверяет структурные инварианты сети.
// Возвращает объединение всех найденных нарушений; каждое из них оборачивает ErrInfeasibleNetwork.
func (p *Project) Validate() error {
	if p == nil {
		return errors.Wrap(ErrInfeasibleNetwork, "проект не задан (nil)")
	}
	n := len(p.Activities)
	if n < 2 {
		return errors.Wrapf(ErrInfeasibleNetwork, "нужны как минимум источник и сток (получено работ: %d)", n)
	}

	var errs error
	violation := func(format string, args ...any) {
		errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, format, args...))
	}

	for i, r := range p.Resources {
		if r.ID != i {
			violation("ресурс на позиции %d имеет ID %d", i, r.ID)
		}
		if r.Capacity <= 0 {
			violation("мощность ресурса %d должна быть > 0 (получено %d)", i, r.Capacity)
		}
	}

	for i, a := range p.Activities {
		if a.ID != i {
			violation("работа на позиции %d имеет ID %d", i, a.ID)
		}
		if a.Duration < 0 {
			violation("длительность работы %d должна быть >= 0 (получено %d)", i, a.Duration)
		}
		if len(a.Demand) > len(p.Resources) {
			violation("работа %d задаёт потребности для %d ресурсов (всего ресурсов %d)", i, len(a.Demand), len(p.Resources))
		}
		for r, q := range a.Demand {
			if q < 0 {
				violation("потребность работы %d в ресурсе %d должна быть >= 0 (получено %d)", i, r, q)
				continue
			}
			if r < len(p.Resources) && q > p.Resources[r].Capacity {
				violation("потребность работы %d в ресурсе %d (%d) превышает мощность %d", i, r, q, p.Resources[r].Capacity)
			}
		}
		errs = multierr.Append(errs, p.validateLinks(i))
	}
	if errs != nil {
		return errs
	}

	errs = multierr.Append(errs, p.validateTerminals())
	errs = multierr.Append(errs, p.validateAcyclic())
	return errs
}

// validateLinks проверяет диапазоны, петли, дубликаты и взаимную согласованность
// списков предшественников и последователей работы i.
func (p *Project) validateLinks(i int) error {
	var errs error
	n := len(p.Activities)
	a := p.Activities[i]

	check := func(kind string, ids []int, inverse func(int) []int) {
		seen := make(map[int]bool, len(ids))
		for _, j := range ids {
			if j < 0 || j >= n {
				errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d: %s %d вне диапазона [0,%d)", i, kind, j, n))
				continue
			}
			if j == i {
				errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d ссылается сама на себя", i))
				continue
			}
			if seen[j] {
				errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d: повторный %s %d", i, kind, j))
				continue
			}
			seen[j] = true
			if !contains(inverse(j), i) {
				errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d: %s %d не содержит обратной ссылки", i, kind, j))
			}
		}
	}
	check("последователь", a.Successors, func(j int) []int { return p.Activities[j].Predecessors })
	check("предшественник", a.Predecessors, func(j int) []int { return p.Activities[j].Successors })
	return errs
}

// validateTerminals проверяет единственность источника (ID 0) и стока (ID n-1).
func (p *Project) validateTerminals() error {
	var errs error
	src, sink := p.Source(), p.Sink()
	for i, a := range p.Activities {
		if len(a.Predecessors) == 0 && i != src {
			errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d без предшественников не является источником", i))
		}
		if len(a.Successors) == 0 && i != sink {
			errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "работа %d без последователей не является стоком", i))
		}
	}
	for _, id := range []int{src, sink} {
		a := p.Activities[id]
		if a.Duration != 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "фиктивная работа %d должна иметь нулевую длительность (получено %d)", id, a.Duration))
		}
		for r, q := range a.Demand {
			if q != 0 {
				errs = multierr.Append(errs, errors.Wrapf(ErrInfeasibleNetwork, "фиктивная работа %d потребляет ресурс %d", id, r))
			}
		}
	}
	if len(p.Activities[src].Predecessors) != 0 {
		errs = multierr.Append(errs, errors.Wrap(ErrInfeasibleNetwork, "источник имеет предшественников"))
	}
	if len(p.Activities[sink].Successors) != 0 {
		errs = multierr.Append(errs, errors.Wrap(ErrInfeasibleNetwork, "сток имеет последователей"))
	}
	return errs
}

// validateAcyclic — алгоритм Кана по спискам последователей.
func (p *Project) validateAcyclic() error {
	n := len(p.Activities)
	inDegree := make([]int, n)
	for _, a := range p.Activities {
		for _, s := range a.Successors {
			inDegree[s]++
		}
	}
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	sorted := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted++
		for _, s := range p.Activities[node].Successors {
			inDegree[s]--
			if inDegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	if sorted != n {
		return errors.Wrapf(ErrInfeasibleNetwork, "граф предшествования содержит цикл (упорядочено %d из %d работ)", sorted, n)
	}
	return nil
}

func contains(ids []int, v int) bool {
	for _, id := range ids {
		if id == v {
			return true
		}
	}
	return false
}
