package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/atomic"

	"srcpspGrasp/internal/analyze"
	"srcpspGrasp/internal/opt"
	"srcpspGrasp/internal/parallel"
	"srcpspGrasp/internal/project"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Instance — загруженный экземпляр задачи.
type Instance struct {
	Name    string
	Project *project.Project
}

// LoadInstances читает RCP-файлы в заданном порядке.
func LoadInstances(paths []string) ([]Instance, error) {
	out := make([]Instance, 0, len(paths))
	for _, path := range paths {
		p, err := project.LoadRCP(path)
		if err != nil {
			return nil, err
		}
		out = append(out, Instance{Name: InstanceName(path), Project: p})
	}
	return out, nil
}

// Case — параметры случайного экземпляра.
type Case struct {
	Jobs         int
	Resources    int
	MaxDuration  int
	MaxCapacity  int
	InstanceSeed int64
}

// GenerateInstances строит случайные экземпляры; одинаковые Case дают одинаковые проекты.
func GenerateInstances(cases []Case) []Instance {
	out := make([]Instance, 0, len(cases))
	for _, c := range cases {
		instRng := randForSeed(c.InstanceSeed)
		p := project.RandomProject(c.Jobs, c.Resources, c.MaxDuration, c.MaxCapacity, instRng)
		out = append(out, Instance{
			Name:    fmt.Sprintf("random-j%d-r%d-s%d", c.Jobs, c.Resources, c.InstanceSeed),
			Project: p,
		})
	}
	return out
}

// Row — результат одного запуска алгоритма на экземпляре.
type Row struct {
	RunID    string
	Instance string
	Algo     string
	Run      int
	Seed     int64

	Makespan         int
	ExpectedMakespan float64
	TrueMakespan     float64
	Constructed      int
	TimeMs           float64
}

// Record — сводка по всем запускам алгоритма на экземпляре.
type Record struct {
	Instance string
	Algo     string
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int

	ExpectedBest float64
	ExpectedMean float64
	ExpectedStd  float64

	TrueBest float64
	TrueMean float64
	TrueStd  float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	Workers       int
	PerRunTimeout time.Duration // 0 = no timeout

	Log   *log.Entry
	Scope tally.Scope
}

type task struct {
	inst Instance
	algo Algorithm
	run  int
}

// Run запускает каждый алгоритм Runs раз на каждом экземпляре.
// Запуски независимы и выполняются параллельно на Workers горутинах;
// каждый получает собственный генератор, поэтому результат не зависит от Workers.
func (r Runner) Run(ctx context.Context, instances []Instance, algos []Algorithm) ([]Row, error) {
	if r.Runs <= 0 {
		return nil, errors.Errorf("количество запусков должно быть > 0 (получено %d)", r.Runs)
	}
	logger, scope := r.logger(), r.scope()

	var tasks []task
	for _, inst := range instances {
		for _, a := range algos {
			for i := 0; i < r.Runs; i++ {
				tasks = append(tasks, task{inst: inst, algo: a, run: i})
			}
		}
	}

	done := atomic.NewInt64(0)
	total := len(tasks)
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	return parallel.Map(ctx, workers, total, func(ctx context.Context, i int) (Row, error) {
		t := tasks[i]
		seed := DeriveSeed(r.BaseSeed, uint64(t.run))
		row, err := r.runOne(ctx, t, seed)
		if err != nil {
			return Row{}, errors.Wrapf(err, "%s/%s запуск %d", t.inst.Name, t.algo.Name, t.run)
		}
		scope.Counter("runs").Inc(1)
		logger.WithFields(log.Fields{
			"run_id":            row.RunID,
			"instance":          row.Instance,
			"algo":              row.Algo,
			"run":               row.Run,
			"expected_makespan": row.ExpectedMakespan,
			"true_makespan":     row.TrueMakespan,
			"progress":          done.Inc(),
			"total":             total,
		}).Debug("запуск завершён")
		return row, nil
	})
}

func (r Runner) runOne(ctx context.Context, t task, seed int64) (Row, error) {
	op := t.algo.Factory(seed)

	runCtx := ctx
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
	}
	defer cancel()

	start := time.Now()
	res, err := op.Solve(runCtx, t.inst.Project)
	dur := time.Since(start)

	if err != nil && runCtx.Err() != nil {
		return Row{}, errors.Wrap(err, "отмена/таймаут")
	}
	if err != nil {
		return Row{}, errors.Wrap(err, "ошибка решения")
	}
	if res.Best == nil || len(res.Permutation) != t.inst.Project.Size() {
		return Row{}, errors.Errorf("некорректная перестановка длины %d (ожидалось %d)", len(res.Permutation), t.inst.Project.Size())
	}
	trueMs, err := res.Best.TrueMakespan()
	if err != nil {
		return Row{}, err
	}

	return Row{
		RunID:            uuid.NewString(),
		Instance:         t.inst.Name,
		Algo:             t.algo.Name,
		Run:              t.run,
		Seed:             seed,
		Makespan:         res.Makespan,
		ExpectedMakespan: res.ExpectedMakespan,
		TrueMakespan:     trueMs,
		Constructed:      res.Evaluations,
		TimeMs:           float64(dur.Microseconds()) / 1000.0,
	}, nil
}

func (r Runner) logger() *log.Entry {
	if r.Log != nil {
		return r.Log
	}
	return log.WithField("component", "bench")
}

func (r Runner) scope() tally.Scope {
	if r.Scope != nil {
		return r.Scope
	}
	return tally.NoopScope
}

// Summarize группирует строки по (экземпляр, алгоритм) в порядке первого появления.
func Summarize(rows []Row) []Record {
	type key struct{ inst, algo string }
	var order []key
	groups := make(map[key][]Row)
	for _, row := range rows {
		k := key{row.Instance, row.Algo}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	records := make([]Record, 0, len(order))
	for _, k := range order {
		g := groups[k]
		makespans := make([]int, len(g))
		expected := make([]float64, len(g))
		truth := make([]float64, len(g))
		times := make([]float64, len(g))
		for i, row := range g {
			makespans[i] = row.Makespan
			expected[i] = row.ExpectedMakespan
			truth[i] = row.TrueMakespan
			times[i] = row.TimeMs
		}
		ms := CalcStats(makespans)
		es := CalcStats(expected)
		ts := CalcStats(truth)
		tm := CalcStats(times)
		records = append(records, Record{
			Instance: k.inst,
			Algo:     k.algo,
			Runs:     len(g),

			TimeBestMs: tm.Best,
			TimeMeanMs: tm.Mean,
			TimeStdMs:  tm.Std,

			MakespanBest: ms.Best,

			ExpectedBest: es.Best,
			ExpectedMean: es.Mean,
			ExpectedStd:  es.Std,

			TrueBest: ts.Best,
			TrueMean: ts.Mean,
			TrueStd:  ts.Std,
		})
	}
	return records
}

// MetricsRow — структурные показатели одного экземпляра.
type MetricsRow struct {
	Instance string
	Metrics  []analyze.Metric
}

// AnalyzeAll вычисляет показатели для всех экземпляров параллельно.
func AnalyzeAll(ctx context.Context, instances []Instance, workers int, names ...analyze.Name) ([]MetricsRow, error) {
	if workers <= 0 {
		workers = 1
	}
	return parallel.Map(ctx, workers, len(instances), func(ctx context.Context, i int) (MetricsRow, error) {
		m, err := analyze.Analyze(instances[i].Project, names...)
		if err != nil {
			return MetricsRow{}, errors.Wrap(err, instances[i].Name)
		}
		return MetricsRow{Instance: instances[i].Name, Metrics: m}, nil
	})
}

func writeCSV(path string, header []string, rows [][]string) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRowsCSV пишет результаты отдельных запусков.
func WriteRowsCSV(path string, rows []Row) error {
	header := []string{
		"instance", "algo", "run", "seed", "run_id",
		"makespan", "expected_makespan", "true_makespan",
		"constructed", "time_ms",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Instance, r.Algo, itoa(r.Run), i64toa(r.Seed), r.RunID,
			itoa(r.Makespan), ftoa(r.ExpectedMakespan), ftoa(r.TrueMakespan),
			itoa(r.Constructed), ftoa(r.TimeMs),
		})
	}
	return writeCSV(path, header, out)
}

// WriteCSV пишет сводку по экземплярам и алгоритмам.
func WriteCSV(path string, records []Record) error {
	header := []string{
		"instance", "algo", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best",
		"expected_best", "expected_mean", "expected_std",
		"true_best", "true_mean", "true_std",
	}
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, []string{
			r.Instance, r.Algo, itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.MakespanBest),

			ftoa(r.ExpectedBest),
			ftoa(r.ExpectedMean),
			ftoa(r.ExpectedStd),

			ftoa(r.TrueBest),
			ftoa(r.TrueMean),
			ftoa(r.TrueStd),
		})
	}
	return writeCSV(path, header, out)
}

// WriteMetricsCSV пишет показатели экземпляров; столбцы — в порядке показателей первой строки.
func WriteMetricsCSV(path string, rows []MetricsRow) error {
	header := []string{"instance"}
	if len(rows) > 0 {
		for _, m := range rows[0].Metrics {
			header = append(header, string(m.Name))
		}
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Instance}
		for _, m := range r.Metrics {
			line = append(line, ftoa(m.Value))
		}
		out = append(out, line)
	}
	return writeCSV(path, header, out)
}

// Algorithms возвращает имена алгоритмов в строках без повторов, по алфавиту.
func Algorithms(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Algo] {
			seen[r.Algo] = true
			out = append(out, r.Algo)
		}
	}
	sort.Strings(out)
	return out
}

// FilterAlgo возвращает строки одного алгоритма.
func FilterAlgo(rows []Row, algo string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Algo == algo {
			out = append(out, r)
		}
	}
	return out
}

// WriteMakespansCSV пишет по строке на запуск: экземпляр, ожидаемая и «истинная» длительность.
func WriteMakespansCSV(path string, rows []Row) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Instance, ftoa(r.ExpectedMakespan), ftoa(r.TrueMakespan)})
	}
	return writeCSV(path, []string{"instance", "expected_makespan", "true_makespan"}, out)
}
