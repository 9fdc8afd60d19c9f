package bench

import "math"

type number interface {
	~int | ~int64 | ~float64
}

// Stats — сводка выборки: лучшее (наименьшее) и худшее значения, среднее
// и выборочное стандартное отклонение.
type Stats[T number] struct {
	N     int
	Best  T
	Worst T
	Mean  float64
	Std   float64
}

func CalcStats[T number](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Best, s.Worst = values[0], values[0]
	sum := 0.0
	for _, v := range values {
		s.Best = min(s.Best, v)
		s.Worst = max(s.Worst, v)
		sum += float64(v)
	}
	s.Mean = sum / float64(s.N)

	if s.N >= 2 {
		variance := 0.0
		for _, v := range values {
			d := float64(v) - s.Mean
			variance += d * d
		}
		s.Std = math.Sqrt(variance / float64(s.N-1))
	}
	return s
}
