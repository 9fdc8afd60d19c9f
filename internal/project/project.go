package project

import "sync"

// Activity — работа проекта.
// ID совпадает с позицией работы в Project.Activities.
type Activity struct {
	ID       int
	Duration int
	// Demand[r] — потребность в ресурсе r.
	Demand       []int
	Predecessors []int
	Successors   []int
}

// Resource — возобновляемый ресурс с постоянной мощностью.
type Resource struct {
	ID       int
	Capacity int
}

// Project — сеть работ (DAG) и набор ресурсов.
// После создания через New структура не изменяется.
type Project struct {
	Activities []Activity
	Resources  []Resource

	timingOnce sync.Once
	timing     *Timing
}

// New создаёт проект и проверяет его корректность.
func New(activities []Activity, resources []Resource) (*Project, error) {
	p := &Project{Activities: activities, Resources: resources}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Size возвращает количество работ, включая фиктивные источник и сток.
func (p *Project) Size() int {
	return len(p.Activities)
}

func (p *Project) Source() int { return 0 }

func (p *Project) Sink() int { return len(p.Activities) - 1 }

// Demand возвращает потребность работы a в ресурсе r.
// Отсутствующие элементы трактуются как нулевая потребность.
func (p *Project) Demand(a, r int) int {
	d := p.Activities[a].Demand
	if r >= len(d) {
		return 0
	}
	return d[r]
}

// Durations возвращает вектор номинальных длительностей, индексированный по ID работы.
func (p *Project) Durations() []int {
	out := make([]int, len(p.Activities))
	for i, a := range p.Activities {
		out[i] = a.Duration
	}
	return out
}

// Link добавляет дугу предшествования from -> to в оба списка.
// Используется при построении проекта до вызова New.
func Link(activities []Activity, from, to int) {
	activities[from].Successors = append(activities[from].Successors, to)
	activities[to].Predecessors = append(activities[to].Predecessors, from)
}
