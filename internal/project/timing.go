package project

import "math"

// negInf — метка недостижимости в матрице расстояний.
const negInf = math.MinInt

// Timing — ранние и поздние сроки работ, индексированные по ID.
type Timing struct {
	EarliestStart  []int
	EarliestFinish []int
	LatestStart    []int
	LatestFinish   []int
	// CriticalPath — длина критического пути (ранний старт стока).
	CriticalPath int
}

// Timing возвращает сроки работ. Расчёт выполняется один раз и кэшируется.
func (p *Project) Timing() *Timing {
	p.timingOnce.Do(func() {
		p.timing = computeTiming(p)
	})
	return p.timing
}

// CriticalPathLength — длина критического пути проекта.
func (p *Project) CriticalPathLength() int {
	return p.Timing().CriticalPath
}

// LongestPaths возвращает матрицу длиннейших путей D, где D[i][j] — длина
// длиннейшего пути из i в j (сумма длительностей всех работ пути, кроме j),
// либо false в reach[i][j], если j недостижима из i.
func (p *Project) LongestPaths() (dist [][]int, reach [][]bool) {
	d := longestPaths(p)
	reach = make([][]bool, len(d))
	for i := range d {
		reach[i] = make([]bool, len(d))
		for j := range d[i] {
			reach[i][j] = d[i][j] != negInf
		}
	}
	return d, reach
}

// longestPaths — релаксация Triple (Флойд–Уоршелл для длиннейших путей).
// Недостижимые пары остаются negInf и никогда не участвуют в сложении.
func longestPaths(p *Project) [][]int {
	n := len(p.Activities)
	backing := make([]int, n*n)
	d := make([][]int, n)
	for i := 0; i < n; i++ {
		d[i] = backing[i*n : (i+1)*n]
		for j := range d[i] {
			d[i][j] = negInf
		}
		d[i][i] = 0
	}
	for _, a := range p.Activities {
		for _, s := range a.Successors {
			d[a.ID][s] = a.Duration
		}
	}

	for k := 0; k < n; k++ {
		dk := d[k]
		for i := 0; i < n; i++ {
			if i == k || d[i][k] == negInf {
				continue
			}
			dik := d[i][k]
			di := d[i]
			for j := 0; j < n; j++ {
				if j == k || dk[j] == negInf {
					continue
				}
				if v := dik + dk[j]; v > di[j] {
					di[j] = v
				}
			}
		}
	}
	return d
}

func computeTiming(p *Project) *Timing {
	n := len(p.Activities)
	d := longestPaths(p)
	src, sink := p.Source(), p.Sink()

	t := &Timing{
		EarliestStart:  make([]int, n),
		EarliestFinish: make([]int, n),
		LatestStart:    make([]int, n),
		LatestFinish:   make([]int, n),
		CriticalPath:   d[src][sink],
	}
	for _, a := range p.Activities {
		i := a.ID
		t.EarliestStart[i] = d[src][i]
		t.EarliestFinish[i] = t.EarliestStart[i] + a.Duration
		// Эквивалентно -D[i][src] при замыкающей дуге сток -> источник весом -CPL.
		t.LatestStart[i] = t.CriticalPath - d[i][sink]
		t.LatestFinish[i] = t.LatestStart[i] + a.Duration
	}
	return t
}
