package grasp

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/opt"
	"srcpspGrasp/internal/project"
	"srcpspGrasp/internal/solution"
)

// Причины остановки поиска.
const (
	StopMaxSolutions = "max_solutions"
	StopStagnation   = "stagnation"
	StopContext      = "context"
)

// Solver — реализация GRASP с элитным пулом для SRCPSP.
type Solver struct {
	Cfg   Config
	Rng   *rand.Rand
	Log   *log.Entry
	Scope tally.Scope
}

// New возвращает новый GRASP-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{
		Cfg:   cfg,
		Rng:   rng,
		Log:   log.WithField("solver", "grasp"),
		Scope: tally.NoopScope,
	}, nil
}

// Solve — прогрев пула, затем итерации построения и отбора до исчерпания
// бюджета решений или предела стагнации.
func (s *Solver) Solve(ctx context.Context, p *project.Project) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, errors.New("генератор случайных чисел не инициализирован (nil)")
	}
	if err := p.Validate(); err != nil {
		return opt.Result{}, err
	}
	logger, scope := s.Log, s.Scope
	if logger == nil {
		logger = log.WithField("solver", "grasp")
	}
	if scope == nil {
		scope = tally.NoopScope
	}
	sw := scope.Timer("solve").Start()
	defer sw.Stop()

	sampler, err := distribution.Get(s.Cfg.Distribution)
	if err != nil {
		return opt.Result{}, errors.Wrap(ErrConfiguration, err.Error())
	}
	est, err := solution.NewEstimator(p, sampler, s.Rng, s.Cfg.Replications, s.Cfg.TrueReplications)
	if err != nil {
		return opt.Result{}, err
	}

	r := &run{
		cfg:   s.Cfg,
		est:   est,
		con:   newConstructor(p, s.Cfg.MinHold, s.Cfg.MaxHold, s.Rng),
		pool:  NewPool(s.Cfg.PoolSize),
		scope: scope,
	}

	// Прогрев: пул заполняется без отбора решениями с сильным уклоном в LFT.
	warm := probabilities{lft: warmUpLFT, random: warmUpRandom}
	for r.pool.Len() < s.Cfg.PoolSize {
		if err := ctx.Err(); err != nil {
			return r.canceled(start, 0, err)
		}
		sol, score, err := r.next(warm)
		if err != nil {
			return opt.Result{}, err
		}
		r.pool.Add(sol, score)
	}
	logger.WithFields(log.Fields{
		"activities": p.Size(),
		"pool_size":  r.pool.Len(),
	}).Debug("пул заполнен")

	// Поиск
	search := probabilities{lft: s.Cfg.PLFT, random: s.Cfg.PRandom, inverse: s.Cfg.PInverse}
	stagnation, accepted, iterations := 0, 0, 0
	stopped := StopMaxSolutions
	for r.constructed < s.Cfg.MaxSolutions {
		if stagnation >= s.Cfg.MaxStagnation {
			stopped = StopStagnation
			break
		}
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return r.canceled(start, iterations, err)
		}

		sol, score, err := r.next(search)
		if err != nil {
			return opt.Result{}, err
		}
		iterations++

		if r.pool.Offer(sol, score) {
			accepted++
			stagnation = 0
			scope.Counter("accepted").Inc(1)
		} else {
			stagnation++
			r.reject(score)
			scope.Counter("rejected").Inc(1)
		}
	}

	meta := map[string]any{
		"stopped":      stopped,
		"accepted":     accepted,
		"pool_size":    s.Cfg.PoolSize,
		"pool_scores":  r.pool.Scores(),
		"distribution": string(sampler.Kind()),
		"p_lft":        s.Cfg.PLFT,
		"p_random":     s.Cfg.PRandom,
		"p_inverse":    s.Cfg.PInverse,
	}
	if r.rejected > 0 {
		meta["best_rejected"] = r.bestRejected
	}
	res, err := r.result(iterations, meta)
	if err != nil {
		return opt.Result{}, err
	}
	res.Duration = time.Since(start)
	scope.Gauge("best_expected_makespan").Update(res.ExpectedMakespan)

	logger.WithFields(log.Fields{
		"expected_makespan": res.ExpectedMakespan,
		"makespan":          res.Makespan,
		"constructed":       r.constructed,
		"accepted":          accepted,
		"stopped":           stopped,
	}).Info("поиск завершён")
	return res, nil
}

// run — состояние одного вызова Solve.
type run struct {
	cfg   Config
	est   *solution.Estimator
	con   *constructor
	pool  *Pool
	scope tally.Scope

	constructed int

	// Лучшая оценка среди отклонённых пулом решений.
	rejected     int
	bestRejected float64
}

func (r *run) reject(score float64) {
	if r.rejected == 0 || score < r.bestRejected {
		r.bestRejected = score
	}
	r.rejected++
}

// canceled возвращает лучшее найденное к моменту отмены решение вместе с ошибкой контекста.
func (r *run) canceled(start time.Time, iterations int, ctxErr error) (opt.Result, error) {
	res, err := r.result(iterations, map[string]any{"stopped": StopContext})
	if err != nil {
		return opt.Result{}, err
	}
	res.Duration = time.Since(start)
	return res, ctxErr
}

// next строит и оценивает одно новое решение.
func (r *run) next(probs probabilities) (*solution.Solution, float64, error) {
	seq := r.con.construct(probs, r.pool)
	r.constructed++
	r.scope.Counter("constructed").Inc(1)
	if r.con.fallbacks > 0 {
		r.scope.Counter("elite_fallback").Inc(int64(r.con.fallbacks))
	}
	for rl, steps := range r.con.ruleSteps {
		if steps > 0 {
			r.scope.Tagged(map[string]string{"rule": rule(rl).String()}).Counter("steps").Inc(int64(steps))
		}
	}

	sol, err := solution.New(r.est, seq)
	if err != nil {
		return nil, 0, errors.Wrap(err, "построено недопустимое решение")
	}
	score, err := sol.ExpectedMakespan()
	if err != nil {
		return nil, 0, err
	}
	return sol, score, nil
}

func (r *run) result(iterations int, meta map[string]any) (opt.Result, error) {
	best, score, ok := r.pool.Best()
	if !ok {
		return opt.Result{Evaluations: r.constructed, Iterations: iterations, Meta: meta}, nil
	}
	ms, err := best.Makespan()
	if err != nil {
		return opt.Result{}, errors.Wrap(err, "длительность лучшего решения")
	}
	return opt.Result{
		Best:             best,
		Permutation:      best.Sequence(),
		Makespan:         ms,
		ExpectedMakespan: score,
		Evaluations:      r.constructed,
		Iterations:       iterations,
		Meta:             meta,
	}, nil
}
