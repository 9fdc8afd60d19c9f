package project

import "math/rand"

// RandomProject генерирует случайный корректный проект из jobs реальных работ
// (плюс источник и сток) и resources ресурсов.
// Работа i может зависеть только от работ с меньшими номерами, поэтому граф ацикличен.
func RandomProject(jobs, resources, maxDuration, maxCapacity int, rng *rand.Rand) *Project {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if jobs < 0 || resources < 0 || maxDuration < 1 || maxCapacity < 1 {
		panic("invalid generator bounds")
	}

	res := make([]Resource, resources)
	for k := range res {
		res[k] = Resource{ID: k, Capacity: 1 + rng.Intn(maxCapacity)}
	}

	n := jobs + 2
	acts := make([]Activity, n)
	for i := range acts {
		acts[i] = Activity{ID: i, Demand: make([]int, resources)}
	}
	for i := 1; i <= jobs; i++ {
		acts[i].Duration = 1 + rng.Intn(maxDuration)
		for k := range res {
			if rng.Intn(2) == 0 {
				acts[i].Demand[k] = rng.Intn(res[k].Capacity + 1)
			}
		}
	}

	for i := 1; i <= jobs; i++ {
		// Предшественники выбираются среди реальных работ с меньшими номерами.
		for j := 1; j < i; j++ {
			if rng.Intn(jobs) < 2 {
				Link(acts, j, i)
			}
		}
		if len(acts[i].Predecessors) == 0 {
			Link(acts, 0, i)
		}
	}
	for i := 1; i <= jobs; i++ {
		if len(acts[i].Successors) == 0 {
			Link(acts, i, n-1)
		}
	}
	if jobs == 0 {
		Link(acts, 0, n-1)
	}

	p, err := New(acts, res)
	if err != nil {
		panic(err)
	}
	return p
}
