package project

import "github.com/pkg/errors"

// ValidatePermutation проверяет, что perm содержит каждый ID из [0,n) ровно один раз.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return errors.Errorf("длина перестановки должна быть %d (получено %d)", n, len(perm))
	}
	seen := make([]bool, n)
	for i, v := range perm {
		if v < 0 || v >= n {
			return errors.Errorf("perm[%d]=%d вне диапазона [0,%d)", i, v, n)
		}
		if seen[v] {
			return errors.Errorf("повторный ID работы %d в перестановке", v)
		}
		seen[v] = true
	}
	return nil
}

// ValidateOrder проверяет, что perm — перестановка всех работ проекта,
// в которой каждая работа стоит после всех своих предшественников.
func (p *Project) ValidateOrder(perm []int) error {
	n := len(p.Activities)
	if err := ValidatePermutation(perm, n); err != nil {
		return errors.Wrap(ErrInvalidSchedule, err.Error())
	}
	pos := make([]int, n)
	for i, v := range perm {
		pos[v] = i
	}
	for _, a := range p.Activities {
		for _, pred := range a.Predecessors {
			if pos[pred] > pos[a.ID] {
				return errors.Wrapf(ErrInvalidSchedule, "работа %d стоит раньше своего предшественника %d", a.ID, pred)
			}
		}
	}
	return nil
}
