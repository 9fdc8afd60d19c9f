package bench

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"

	"srcpspGrasp/internal/analyze"
	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/grasp"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCalcStats(t *testing.T) {
	is := CalcStats([]int{4, 2, 6})
	assert.Equal(t, 3, is.N)
	assert.Equal(t, 2, is.Best)
	assert.Equal(t, 6, is.Worst)
	assert.InDelta(t, 4.0, is.Mean, 1e-9)
	assert.InDelta(t, 2.0, is.Std, 1e-9)

	fs := CalcStats([]float64{1.5})
	assert.Equal(t, 1.5, fs.Best)
	assert.Equal(t, 1.5, fs.Worst)
	assert.Zero(t, fs.Std)

	assert.Zero(t, CalcStats[float64](nil).N)
}

func TestPartition(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, paths, Partition(paths, 0, 2))
	assert.Equal(t, []string{"a", "b"}, Partition(paths, 1, 2))
	assert.Equal(t, []string{"e"}, Partition(paths, 3, 2))
	assert.Nil(t, Partition(paths, 4, 2))
	assert.Equal(t, paths, Partition(paths, 2, 0))
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(1000, 3), DeriveSeed(1000, 3))
	assert.NotEqual(t, DeriveSeed(1000, 3), DeriveSeed(1000, 4))
	assert.NotEqual(t, DeriveSeed(1000, 3), DeriveSeed(1001, 3))
}

func TestInstanceName(t *testing.T) {
	assert.Equal(t, "J301_1", InstanceName("data/j30rcp/J301_1.RCP"))
	assert.Equal(t, "x", InstanceName("x"))
}

func TestGenerateInstances(t *testing.T) {
	cases := []Case{
		{Jobs: 8, Resources: 2, MaxDuration: 5, MaxCapacity: 4, InstanceSeed: 1},
		{Jobs: 8, Resources: 2, MaxDuration: 5, MaxCapacity: 4, InstanceSeed: 1},
	}
	inst := GenerateInstances(cases)
	require.Len(t, inst, 2)
	assert.Equal(t, inst[0].Name, inst[1].Name)
	assert.Equal(t, 10, inst[0].Project.Size())
	assert.Equal(t, inst[0].Project.Durations(), inst[1].Project.Durations())
}

func TestGRASP_RejectsInvalidConfig(t *testing.T) {
	cfg := grasp.DefaultConfig()
	cfg.PRandom = 3
	_, err := GRASP("bad", cfg, nil, nil)
	require.ErrorIs(t, err, grasp.ErrConfiguration)
}

func smallConfig() grasp.Config {
	cfg := grasp.DefaultConfig()
	cfg.PoolSize = 4
	cfg.MaxSolutions = 30
	cfg.Replications = 2
	cfg.TrueReplications = 20
	cfg.Distribution = distribution.KindUniformSqrt
	return cfg
}

func TestRunner_Run(t *testing.T) {
	instances := GenerateInstances([]Case{
		{Jobs: 10, Resources: 2, MaxDuration: 6, MaxCapacity: 5, InstanceSeed: 11},
		{Jobs: 6, Resources: 1, MaxDuration: 6, MaxCapacity: 5, InstanceSeed: 12},
	})

	scope := tally.NewTestScope("", nil)
	a, err := GRASP("uniform", smallConfig(), nil, scope)
	require.NoError(t, err)
	inv := smallConfig()
	inv.PRandom, inv.PInverse = 0, 0.05
	b, err := GRASP("uniform_inverse", inv, nil, scope)
	require.NoError(t, err)

	run := func(workers int) []Row {
		r := Runner{Runs: 3, BaseSeed: 1000, Workers: workers, Scope: scope}
		rows, err := r.Run(context.Background(), instances, []Algorithm{a, b})
		require.NoError(t, err)
		return rows
	}
	rows := run(4)
	require.Len(t, rows, 2*2*3)

	// Порядок строк: экземпляр, алгоритм, запуск.
	assert.Equal(t, instances[0].Name, rows[0].Instance)
	assert.Equal(t, "uniform", rows[0].Algo)
	assert.Equal(t, 2, rows[2].Run)
	assert.Equal(t, "uniform_inverse", rows[3].Algo)
	assert.Equal(t, DeriveSeed(1000, 1), rows[1].Seed)

	ids := make(map[string]bool)
	for _, row := range rows {
		assert.NotEmpty(t, row.RunID)
		ids[row.RunID] = true
		assert.Equal(t, 30, row.Constructed)
		assert.Greater(t, row.TrueMakespan, 0.0)
	}
	assert.Len(t, ids, len(rows))

	// Результат не зависит от числа воркеров.
	serial := run(1)
	for i := range rows {
		assert.Equal(t, rows[i].ExpectedMakespan, serial[i].ExpectedMakespan)
		assert.Equal(t, rows[i].Makespan, serial[i].Makespan)
	}

	var runs int64
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == "runs" {
			runs += c.Value()
		}
	}
	assert.EqualValues(t, 2*len(rows), runs)

	records := Summarize(rows)
	require.Len(t, records, 4)
	assert.Equal(t, 3, records[0].Runs)
	assert.LessOrEqual(t, records[0].ExpectedBest, records[0].ExpectedMean)

	assert.Equal(t, []string{"uniform", "uniform_inverse"}, Algorithms(rows))
	assert.Len(t, FilterAlgo(rows, "uniform"), 6)
}

func TestRunner_RejectsZeroRuns(t *testing.T) {
	_, err := Runner{}.Run(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	rows := []Row{
		{RunID: "r1", Instance: "J301_1", Algo: "uniform", Run: 0, Seed: 7, Makespan: 40, ExpectedMakespan: 41.5, TrueMakespan: 42.25, Constructed: 10},
		{RunID: "r2", Instance: "J301_1", Algo: "uniform", Run: 1, Seed: 8, Makespan: 38, ExpectedMakespan: 39.5, TrueMakespan: 40.75, Constructed: 10},
	}

	path := filepath.Join(dir, "out", "j30rcp-uniform.csv")
	require.NoError(t, WriteMakespansCSV(path, rows))
	got := readCSV(t, path)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"instance", "expected_makespan", "true_makespan"}, got[0])
	assert.Equal(t, []string{"J301_1", "41.500000", "42.250000"}, got[1])

	require.NoError(t, WriteRowsCSV(filepath.Join(dir, "runs.csv"), rows))
	got = readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, got, 3)
	assert.Equal(t, "r2", got[2][4])

	records := Summarize(rows)
	require.Len(t, records, 1)
	assert.Equal(t, 38, records[0].MakespanBest)
	assert.InDelta(t, 40.5, records[0].ExpectedMean, 1e-9)
	require.NoError(t, WriteCSV(filepath.Join(dir, "summary.csv"), records))
	got = readCSV(t, filepath.Join(dir, "summary.csv"))
	require.Len(t, got, 2)
	assert.Equal(t, "39.500000", got[1][7])
}

func TestAnalyzeAll(t *testing.T) {
	instances := GenerateInstances([]Case{
		{Jobs: 5, Resources: 2, MaxDuration: 4, MaxCapacity: 3, InstanceSeed: 1},
		{Jobs: 7, Resources: 2, MaxDuration: 4, MaxCapacity: 3, InstanceSeed: 2},
	})
	rows, err := AnalyzeAll(context.Background(), instances, 2, analyze.CriticalPathLength, analyze.ResourceFactor)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, instances[1].Name, rows[1].Instance)
	assert.Equal(t, float64(instances[1].Project.CriticalPathLength()), rows[1].Metrics[0].Value)

	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, WriteMetricsCSV(path, rows))
	got := readCSV(t, path)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"instance", "critical_path_length", "resource_factor"}, got[0])
}
