package bench

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"srcpspGrasp/internal/grasp"
	"srcpspGrasp/internal/opt"
)

// GRASP возвращает алгоритм с конфигурацией cfg под именем name.
// Каждый запуск получает свой солвер и генератор, созданный из сида запуска.
func GRASP(name string, cfg grasp.Config, logger *log.Entry, scope tally.Scope) (Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return Algorithm{}, errors.Wrapf(err, "конфигурация %s", name)
	}
	if logger == nil {
		logger = log.WithField("solver", "grasp")
	}
	logger = logger.WithField("config", name)
	if scope == nil {
		scope = tally.NoopScope
	}
	scope = scope.Tagged(map[string]string{"config": name})

	return Algorithm{
		Name: name,
		Factory: func(seed int64) opt.Optimizer {
			return &grasp.Solver{Cfg: cfg, Rng: randForSeed(seed), Log: logger, Scope: scope}
		},
	}, nil
}
