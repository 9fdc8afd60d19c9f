package project

import (
	"sort"

	"github.com/pkg/errors"
)

// Evaluator строит расписание последовательной схемой генерации (serial SGS).
// Буферы переиспользуются между вызовами, поэтому Evaluator не безопасен
// для одновременного использования из нескольких горутин.
type Evaluator struct {
	proj *Project

	start     []int
	scheduled []int
	usage     []int
	finishes  []int
	pos       []int
	seen      []bool
}

func NewEvaluator(p *Project) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.Size()
	return &Evaluator{
		proj:      p,
		start:     make([]int, n),
		scheduled: make([]int, 0, n),
		usage:     make([]int, len(p.Resources)),
		finishes:  make([]int, 0, n),
		pos:       make([]int, n),
		seen:      make([]bool, n),
	}, nil
}

// Project возвращает проект, для которого создан оценщик.
func (e *Evaluator) Project() *Project {
	return e.proj
}

// Schedule возвращает времена начала работ (по ID) для порядка perm
// и реализованных длительностей durations.
func (e *Evaluator) Schedule(perm, durations []int) ([]int, error) {
	if _, err := e.Makespan(perm, durations); err != nil {
		return nil, err
	}
	out := make([]int, len(e.start))
	copy(out, e.start)
	return out, nil
}

// Makespan возвращает время начала стока в расписании для perm и durations.
func (e *Evaluator) Makespan(perm, durations []int) (int, error) {
	if e == nil || e.proj == nil {
		return 0, errors.Wrap(ErrInvalidSchedule, "nil evaluator")
	}
	if err := e.checkInput(perm, durations); err != nil {
		return 0, err
	}
	return e.run(perm, durations)
}

// MustMakespan — как Makespan, но паникует при ошибке.
func (e *Evaluator) MustMakespan(perm, durations []int) int {
	ms, err := e.Makespan(perm, durations)
	if err != nil {
		panic(err)
	}
	return ms
}

func (e *Evaluator) checkInput(perm, durations []int) error {
	n := e.proj.Size()
	if len(durations) != n {
		return errors.Wrapf(ErrInvalidSchedule, "длина вектора длительностей должна быть %d (получено %d)", n, len(durations))
	}
	for i, d := range durations {
		if d < 0 {
			return errors.Wrapf(ErrInvalidSchedule, "длительность работы %d должна быть >= 0 (получено %d)", i, d)
		}
	}
	if len(perm) != n {
		return errors.Wrapf(ErrInvalidSchedule, "длина перестановки должна быть %d (получено %d)", n, len(perm))
	}

	for i := range e.seen {
		e.seen[i] = false
	}
	for i, v := range perm {
		if v < 0 || v >= n {
			return errors.Wrapf(ErrInvalidSchedule, "perm[%d]=%d вне диапазона [0,%d)", i, v, n)
		}
		if e.seen[v] {
			return errors.Wrapf(ErrInvalidSchedule, "повторный ID работы %d в перестановке", v)
		}
		e.seen[v] = true
		e.pos[v] = i
	}
	for _, a := range e.proj.Activities {
		for _, pred := range a.Predecessors {
			if e.pos[pred] > e.pos[a.ID] {
				return errors.Wrapf(ErrInvalidSchedule, "работа %d стоит раньше своего предшественника %d", a.ID, pred)
			}
		}
	}
	return nil
}

func (e *Evaluator) run(perm, durations []int) (int, error) {
	e.scheduled = e.scheduled[:0]
	latestStart := 0

	for _, id := range perm {
		act := &e.proj.Activities[id]

		// Предшествование: не раньше окончания всех предшественников.
		t := 0
		for _, pred := range act.Predecessors {
			if f := e.start[pred] + durations[pred]; f > t {
				t = f
			}
		}
		// Порядок назначения: не раньше самого позднего уже назначенного старта.
		if latestStart > t {
			t = latestStart
		}

		if !e.feasible(id, t, durations) {
			found := false
			for _, f := range e.overlappingFinishes(t, durations) {
				if e.feasible(id, f, durations) {
					t = f
					found = true
					break
				}
			}
			if !found {
				return 0, errors.Wrapf(ErrInfeasibleNetwork, "работа %d не помещается по ресурсам ни в один момент", id)
			}
		}

		e.start[id] = t
		e.scheduled = append(e.scheduled, id)
		if t > latestStart {
			latestStart = t
		}
	}
	return e.start[e.proj.Sink()], nil
}

// feasible проверяет, что работа id, начатая в момент t, не превышает мощность
// ни одного ресурса вместе с работами, выполняющимися в момент t.
func (e *Evaluator) feasible(id, t int, durations []int) bool {
	for r := range e.usage {
		e.usage[r] = e.proj.Demand(id, r)
	}
	for _, b := range e.scheduled {
		s := e.start[b]
		if s <= t && t < s+durations[b] {
			for r, q := range e.proj.Activities[b].Demand {
				e.usage[r] += q
			}
		}
	}
	for r, res := range e.proj.Resources {
		if e.usage[r] > res.Capacity {
			return false
		}
	}
	return true
}

// overlappingFinishes возвращает отсортированные без повторов моменты окончания
// работ, выполняющихся в момент t.
func (e *Evaluator) overlappingFinishes(t int, durations []int) []int {
	e.finishes = e.finishes[:0]
	for _, b := range e.scheduled {
		s := e.start[b]
		if f := s + durations[b]; s <= t && t < f {
			e.finishes = append(e.finishes, f)
		}
	}
	sort.Ints(e.finishes)
	out := e.finishes[:0]
	for _, f := range e.finishes {
		if len(out) == 0 || f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}
