package project

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadRCP читает проект из файла формата PSPLIB RCP.
func LoadRCP(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "открытие %s", path)
	}
	defer f.Close()

	p, err := ParseRCP(f)
	if err != nil {
		return nil, errors.Wrapf(err, "разбор %s", path)
	}
	return p, nil
}

// ParseRCP разбирает описание проекта в формате RCP:
//
//	n_activities n_resources
//	capacity{n_resources}
//	duration demand{n_resources} n_successors successor{n_successors}   (на каждую работу)
//
// Номера последователей в файле начинаются с 1.
// Списки предшественников строятся как обращение списков последователей.
func ParseRCP(r io.Reader) (*Project, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, errors.Wrapf(err, "чтение поля %q", what)
			}
			return 0, errors.Errorf("неожиданный конец данных: ожидалось поле %q", what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, errors.Wrapf(err, "поле %q", what)
		}
		return v, nil
	}

	n, err := next("n_activities")
	if err != nil {
		return nil, err
	}
	nRes, err := next("n_resources")
	if err != nil {
		return nil, err
	}
	if n < 2 || nRes < 0 {
		return nil, errors.Errorf("некорректный заголовок: работ %d, ресурсов %d", n, nRes)
	}

	resources := make([]Resource, nRes)
	for k := range resources {
		c, err := next("capacity")
		if err != nil {
			return nil, err
		}
		resources[k] = Resource{ID: k, Capacity: c}
	}

	activities := make([]Activity, n)
	successors := make([][]int, n)
	for i := range activities {
		d, err := next("duration")
		if err != nil {
			return nil, errors.Wrapf(err, "работа %d", i)
		}
		demand := make([]int, nRes)
		for k := range demand {
			if demand[k], err = next("demand"); err != nil {
				return nil, errors.Wrapf(err, "работа %d", i)
			}
		}
		ns, err := next("n_successors")
		if err != nil {
			return nil, errors.Wrapf(err, "работа %d", i)
		}
		if ns < 0 {
			return nil, errors.Errorf("работа %d: отрицательное число последователей %d", i, ns)
		}
		for s := 0; s < ns; s++ {
			id, err := next("successor")
			if err != nil {
				return nil, errors.Wrapf(err, "работа %d", i)
			}
			if id < 1 || id > n {
				return nil, errors.Errorf("работа %d: последователь %d вне диапазона [1,%d]", i, id, n)
			}
			successors[i] = append(successors[i], id-1)
		}
		activities[i] = Activity{ID: i, Duration: d, Demand: demand}
	}

	for i, succ := range successors {
		for _, s := range succ {
			Link(activities, i, s)
		}
	}
	return New(activities, resources)
}
