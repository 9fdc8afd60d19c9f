// Package distribution — генераторы реализованных длительностей работ.
//
// Все функции чистые: случайность передаётся явно равномерным значением u,
// а Sampler берёт u из переданного генератора.
// Для нулевой номинальной длительности (фиктивные работы) результат всегда 0.
package distribution

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrUnknownDistribution — запрошено распределение с неизвестным именем.
var ErrUnknownDistribution = errors.New("distribution: неизвестное распределение")

// Degenerate возвращает номинальную длительность без изменений.
func Degenerate(d int) int {
	return d
}

// Uniform — floor(lo + (hi-lo)*u), u в [0,1). Отрицательный результат обрезается до 0.
func Uniform(lo, hi, u float64) int {
	v := math.Floor(lo + (hi-lo)*u)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int(v)
}

// Exponential — floor(-d*ln(u)), u в (0,1].
func Exponential(d int, u float64) int {
	if d == 0 || u <= 0 {
		return 0
	}
	v := math.Floor(-float64(d) * math.Log(u))
	if v < 0 {
		return 0
	}
	return int(v)
}

// UniformSqrt — равномерное распределение на [d-sqrt(d), d+sqrt(d)).
func UniformSqrt(d int, u float64) int {
	if d == 0 {
		return 0
	}
	fd := float64(d)
	s := math.Sqrt(fd)
	return Uniform(fd-s, fd+s, u)
}

// Uniform2 — равномерное распределение на [0, 2d).
func Uniform2(d int, u float64) int {
	if d == 0 {
		return 0
	}
	return Uniform(0, 2*float64(d), u)
}

// Kind — имя распределения.
type Kind string

const (
	KindNone        Kind = "none"
	KindDegenerate  Kind = "degenerate"
	KindUniformSqrt Kind = "uniform_sqrt"
	KindUniform2    Kind = "uniform_2"
	KindExponential Kind = "exponential"
)

// Kinds — все поддерживаемые имена в стабильном порядке.
func Kinds() []Kind {
	return []Kind{KindNone, KindDegenerate, KindUniformSqrt, KindUniform2, KindExponential}
}

// Sampler выдаёт реализованную длительность для номинальной d.
type Sampler struct {
	kind Kind
	fn   func(d int, u float64) int
	// open — u берётся из (0,1] вместо [0,1).
	open bool
}

// Get возвращает генератор по имени.
func Get(kind Kind) (Sampler, error) {
	switch kind {
	case KindNone, KindDegenerate, "":
		return Sampler{kind: KindDegenerate}, nil
	case KindUniformSqrt:
		return Sampler{kind: kind, fn: UniformSqrt}, nil
	case KindUniform2:
		return Sampler{kind: kind, fn: Uniform2}, nil
	case KindExponential:
		return Sampler{kind: kind, fn: Exponential, open: true}, nil
	default:
		return Sampler{}, errors.Wrapf(ErrUnknownDistribution, "%q", kind)
	}
}

// MustGet — как Get, но паникует для неизвестного имени.
func MustGet(kind Kind) Sampler {
	s, err := Get(kind)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Sampler) Kind() Kind {
	if s.kind == "" {
		return KindDegenerate
	}
	return s.kind
}

// Deterministic сообщает, что генератор всегда возвращает номинальную длительность.
func (s Sampler) Deterministic() bool {
	return s.fn == nil
}

// Sample возвращает реализованную длительность для номинальной d.
// Для детерминированного генератора rng не используется и может быть nil.
func (s Sampler) Sample(d int, rng *rand.Rand) int {
	if s.fn == nil || d == 0 {
		return Degenerate(d)
	}
	u := rng.Float64()
	if s.open {
		u = 1 - u
	}
	return s.fn(d, u)
}

// Durations заполняет dst реализованными длительностями для номинальных nominal.
func (s Sampler) Durations(dst, nominal []int, rng *rand.Rand) {
	for i, d := range nominal {
		dst[i] = s.Sample(d, rng)
	}
}
