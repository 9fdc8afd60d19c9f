package bench

import (
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
)

func randForSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed смешивает базовый сид и номер потока (финализатор SplitMix64),
// чтобы соседние запуски получали некоррелированные генераторы.
func DeriveSeed(base int64, stream uint64) int64 {
	x := uint64(base) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// InstanceName — имя файла без каталога и расширения.
func InstanceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Partition возвращает часть paths с номером partition (с 1) размером size.
// size <= 0 — без разбиения.
func Partition(paths []string, partition, size int) []string {
	if size <= 0 || partition <= 0 {
		return paths
	}
	from := (partition - 1) * size
	if from >= len(paths) {
		return nil
	}
	to := from + size
	if to > len(paths) {
		to = len(paths)
	}
	return paths[from:to]
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "." {
		return ""
	}
	return d
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func i64toa(v int64) string { return strconv.FormatInt(v, 10) }
