package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally/v4"

	"srcpspGrasp/internal/analyze"
	"srcpspGrasp/internal/bench"
	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/grasp"
)

var (
	flagLogLevel string
	flagLogJSON  bool
	flagWorkers  int
	flagGlob     string
	flagPart     int
	flagPartSize int

	flagRandom     int
	flagRandomJobs int
	flagRandomRes  int
	flagRandomSeed int64
)

// override — изменение конфигурации, заданное флагом командной строки.
type override func(*grasp.Config)

// presets — конфигурации серии экспериментов на j30rcp.
// Переопределения из флагов применяются к каждой конфигурации после её собственных значений.
func presets(base grasp.Config, overrides ...override) map[string]grasp.Config {
	apply := func(c grasp.Config) grasp.Config {
		for _, o := range overrides {
			o(&c)
		}
		return c
	}
	with := func(kind distribution.Kind, pRandom, pInverse float64) grasp.Config {
		c := base
		c.Distribution = kind
		c.PLFT = 0
		c.PRandom = pRandom
		c.PInverse = pInverse
		return apply(c)
	}
	return map[string]grasp.Config{
		"exponential":         with(distribution.KindExponential, 0.05, 0),
		"exponential_inverse": with(distribution.KindExponential, 0, 0.05),
		"uniform":             with(distribution.KindUniformSqrt, 0.05, 0),
		"uniform_inverse":     with(distribution.KindUniformSqrt, 0, 0.05),
		"custom":              apply(base),
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bench",
		Short: "GRASP для стохастической задачи календарного планирования с ограниченными ресурсами",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			if flagLogJSON {
				log.SetFormatter(&log.JSONFormatter{})
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "уровень логирования: debug | info | warn | error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "логи в формате JSON")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "количество параллельных воркеров")
	rootCmd.PersistentFlags().StringVar(&flagGlob, "glob", "data/j30rcp/*.RCP", "шаблон входных RCP-файлов (если файлы не переданы аргументами)")
	rootCmd.PersistentFlags().IntVar(&flagPart, "partition", 0, "номер части входных файлов (с 1); 0 — все файлы")
	rootCmd.PersistentFlags().IntVar(&flagPartSize, "partition-size", 60, "размер части входных файлов")

	rootCmd.PersistentFlags().IntVar(&flagRandom, "random", 0, "вместо файлов сгенерировать столько случайных экземпляров")
	rootCmd.PersistentFlags().IntVar(&flagRandomJobs, "random-jobs", 30, "число реальных работ в случайном экземпляре")
	rootCmd.PersistentFlags().IntVar(&flagRandomRes, "random-resources", 4, "число ресурсов в случайном экземпляре")
	rootCmd.PersistentFlags().Int64Var(&flagRandomSeed, "random-seed", 1, "базовый сид случайных экземпляров")

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func solveCmd() *cobra.Command {
	var (
		outDir     string
		prefix     string
		configPath string
		algos      string
		runs       int
		baseSeed   int64
		perRunTO   time.Duration
		metrics    bool

		poolSize, minHold, maxHold     int
		maxSolutions, maxStagnation    int
		replications, trueReplications int
		pLFT, pRandom, pInverse        float64
		dist                           string
	)

	cmd := &cobra.Command{
		Use:   "solve [файлы...]",
		Short: "Решить экземпляры выбранными конфигурациями и записать CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := grasp.DefaultConfig()
			if configPath != "" {
				var err error
				if base, err = grasp.LoadConfig(configPath); err != nil {
					return err
				}
			}

			// Флаги переопределяют файл конфигурации и значения пресетов
			f := cmd.Flags()
			var overrides []override
			if f.Changed("pool-size") {
				overrides = append(overrides, func(c *grasp.Config) { c.PoolSize = poolSize })
			}
			if f.Changed("p-lft") {
				overrides = append(overrides, func(c *grasp.Config) { c.PLFT = pLFT })
			}
			if f.Changed("p-random") {
				overrides = append(overrides, func(c *grasp.Config) { c.PRandom = pRandom })
			}
			if f.Changed("p-inverse") {
				overrides = append(overrides, func(c *grasp.Config) { c.PInverse = pInverse })
			}
			if f.Changed("min-hold") {
				overrides = append(overrides, func(c *grasp.Config) { c.MinHold = minHold })
			}
			if f.Changed("max-hold") {
				overrides = append(overrides, func(c *grasp.Config) { c.MaxHold = maxHold })
			}
			if f.Changed("max-solutions") {
				overrides = append(overrides, func(c *grasp.Config) { c.MaxSolutions = maxSolutions })
			}
			if f.Changed("max-stagnation") {
				overrides = append(overrides, func(c *grasp.Config) { c.MaxStagnation = maxStagnation })
			}
			if f.Changed("replications") {
				overrides = append(overrides, func(c *grasp.Config) { c.Replications = replications })
			}
			if f.Changed("true-replications") {
				overrides = append(overrides, func(c *grasp.Config) { c.TrueReplications = trueReplications })
			}
			if f.Changed("distribution") {
				overrides = append(overrides, func(c *grasp.Config) { c.Distribution = distribution.Kind(dist) })
			}

			instances, err := loadInstances(args)
			if err != nil {
				return err
			}

			var scope tally.Scope = tally.NoopScope
			var counters tally.TestScope
			if metrics {
				counters = tally.NewTestScope("srcpsp", nil)
				scope = counters
			}

			available := presets(base, overrides...)
			var selected []bench.Algorithm
			for _, name := range splitCSV(algos) {
				cfg, ok := available[name]
				if !ok {
					return errors.Errorf("конфигурация %q не предоставлена в программе; доступные: %v", name, keys(available))
				}
				algo, err := bench.GRASP(name, cfg, log.WithField("solver", "grasp"), scope)
				if err != nil {
					return err
				}
				selected = append(selected, algo)
			}

			runner := bench.Runner{
				Runs:          runs,
				BaseSeed:      baseSeed,
				Workers:       flagWorkers,
				PerRunTimeout: perRunTO,
				Log:           log.WithField("component", "bench"),
				Scope:         scope,
			}

			log.WithFields(log.Fields{
				"instances": len(instances),
				"configs":   len(selected),
				"runs":      runs,
				"workers":   flagWorkers,
			}).Info("запуск экспериментов")

			rows, err := runner.Run(context.Background(), instances, selected)
			if err != nil {
				return err
			}

			suffix := ""
			if flagPart > 0 {
				suffix = fmt.Sprintf("-%d", flagPart)
			}
			for _, a := range selected {
				path := filepath.Join(outDir, fmt.Sprintf("%s-%s%s.csv", prefix, a.Name, suffix))
				if err := bench.WriteMakespansCSV(path, bench.FilterAlgo(rows, a.Name)); err != nil {
					return errors.Wrap(err, "запись CSV")
				}
			}
			if err := bench.WriteRowsCSV(filepath.Join(outDir, prefix+"-runs"+suffix+".csv"), rows); err != nil {
				return errors.Wrap(err, "запись CSV")
			}
			records := bench.Summarize(rows)
			summary := filepath.Join(outDir, prefix+"-summary"+suffix+".csv")
			if err := bench.WriteCSV(summary, records); err != nil {
				return errors.Wrap(err, "запись CSV")
			}

			for _, rec := range records {
				fmt.Printf("%s %s: ожидаемая длительность лучшая=%.2f средняя=%.2f | истинная средняя=%.2f | время среднее=%.2fms\n",
					rec.Instance, rec.Algo, rec.ExpectedBest, rec.ExpectedMean, rec.TrueMean, rec.TimeMeanMs)
			}
			if counters != nil {
				printCounters(counters)
			}
			fmt.Println("Saved:", summary)
			return nil
		},
	}

	def := grasp.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&outDir, "out-dir", "artifacts", "каталог для CSV-файлов")
	f.StringVar(&prefix, "prefix", "j30rcp", "префикс имён CSV-файлов")
	f.StringVar(&configPath, "config", "", "YAML-файл конфигурации солвера (конфигурация custom и база для остальных)")
	f.StringVar(&algos, "algos", "exponential,exponential_inverse,uniform,uniform_inverse", "конфигурации: exponential, exponential_inverse, uniform, uniform_inverse, custom (через запятую); флаги параметров применяются ко всем")
	f.IntVar(&runs, "runs", 1, "количество запусков каждой конфигурации (с разными сидами)")
	f.Int64Var(&baseSeed, "seed", 1000, "базовый сид для запусков")
	f.DurationVar(&perRunTO, "per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	f.BoolVar(&metrics, "metrics", false, "вывести счётчики солвера после завершения")

	f.IntVar(&poolSize, "pool-size", def.PoolSize, "размер элитного пула")
	f.Float64Var(&pLFT, "p-lft", def.PLFT, "вероятность правила LFT")
	f.Float64Var(&pRandom, "p-random", def.PRandom, "вероятность случайного выбора")
	f.Float64Var(&pInverse, "p-inverse", def.PInverse, "вероятность обращённого элитного решения")
	f.IntVar(&minHold, "min-hold", def.MinHold, "минимальное число шагов удержания ориентира")
	f.IntVar(&maxHold, "max-hold", def.MaxHold, "максимальное число шагов удержания ориентира")
	f.IntVar(&maxSolutions, "max-solutions", def.MaxSolutions, "максимальное число построенных решений")
	f.IntVar(&maxStagnation, "max-stagnation", def.MaxStagnation, "число подряд отклонённых решений до остановки")
	f.IntVar(&replications, "replications", def.Replications, "число репликаций для ожидаемой длительности")
	f.IntVar(&trueReplications, "true-replications", def.TrueReplications, "число репликаций для истинной длительности")
	f.StringVar(&dist, "distribution", string(def.Distribution), "распределение длительностей: none | uniform_sqrt | uniform_2 | exponential")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		out   string
		names string
	)
	cmd := &cobra.Command{
		Use:   "analyze [файлы...]",
		Short: "Вычислить структурные показатели экземпляров и записать CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := loadInstances(args)
			if err != nil {
				return err
			}
			var metrics []analyze.Name
			for _, n := range splitCSV(names) {
				metrics = append(metrics, analyze.Name(n))
			}
			rows, err := bench.AnalyzeAll(context.Background(), instances, flagWorkers, metrics...)
			if err != nil {
				return err
			}
			if err := bench.WriteMetricsCSV(out, rows); err != nil {
				return errors.Wrap(err, "запись CSV")
			}
			fmt.Println("Saved:", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "artifacts/j30rcp-metrics.csv", "путь к выходному CSV-файлу")
	cmd.Flags().StringVar(&names, "metrics", "", "показатели через запятую (по умолчанию все)")
	return cmd
}

// helpers

func loadInstances(args []string) ([]bench.Instance, error) {
	if flagRandom > 0 {
		cases := make([]bench.Case, flagRandom)
		for i := range cases {
			cases[i] = bench.Case{
				Jobs:         flagRandomJobs,
				Resources:    flagRandomRes,
				MaxDuration:  10,
				MaxCapacity:  10,
				InstanceSeed: flagRandomSeed + int64(i),
			}
		}
		return bench.GenerateInstances(cases), nil
	}
	paths := args
	if len(paths) == 0 {
		var err error
		if paths, err = filepath.Glob(flagGlob); err != nil {
			return nil, errors.Wrapf(err, "шаблон %q", flagGlob)
		}
		sort.Strings(paths)
	}
	paths = bench.Partition(paths, flagPart, flagPartSize)
	if len(paths) == 0 {
		return nil, errors.New("нет входных файлов")
	}
	return bench.LoadInstances(paths)
}

func printCounters(ts tally.TestScope) {
	counters := ts.Snapshot().Counters()
	names := make([]string, 0, len(counters))
	for k := range counters {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %s = %d\n", k, counters[k].Value())
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keys(m map[string]grasp.Config) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
