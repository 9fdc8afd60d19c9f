package grasp

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"srcpspGrasp/internal/distribution"
	"srcpspGrasp/internal/solution"
)

// ErrConfiguration — недопустимая конфигурация солвера.
var ErrConfiguration = errors.New("grasp: недопустимая конфигурация")

// Вероятности правил выбора на этапе прогрева (не зависят от конфигурации).
const (
	warmUpLFT    = 0.95
	warmUpRandom = 0.05
)

// probabilityTolerance — допуск при сравнении суммы вероятностей с 1.
const probabilityTolerance = 1e-9

type Config struct {
	// PoolSize — размер элитного пула.
	PoolSize int `yaml:"pool_size"`

	// Вероятности правил выбора ориентира; остаток — элитное решение без обращения.
	PLFT     float64 `yaml:"p_lft"`
	PRandom  float64 `yaml:"p_random"`
	PInverse float64 `yaml:"p_inverse"`

	// Ориентир удерживается случайное число шагов из [MinHold, MaxHold].
	MinHold int `yaml:"min_hold"`
	MaxHold int `yaml:"max_hold"`

	// MaxSolutions — общее число построенных решений, включая прогрев.
	MaxSolutions int `yaml:"max_solutions"`
	// MaxStagnation — число подряд отклонённых решений до остановки.
	MaxStagnation int `yaml:"max_stagnation"`

	Distribution     distribution.Kind `yaml:"distribution"`
	Replications     int               `yaml:"replications"`
	TrueReplications int               `yaml:"true_replications"`
}

func DefaultConfig() Config {
	return Config{
		PoolSize: 50,

		PLFT:     0,
		PRandom:  0.05,
		PInverse: 0,

		MinHold: 1,
		MaxHold: 10,

		MaxSolutions:  5000,
		MaxStagnation: 1000,

		Distribution:     distribution.KindNone,
		Replications:     solution.DefaultReplications,
		TrueReplications: solution.DefaultTrueReplications,
	}
}

func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"p_lft", c.PLFT}, {"p_random", c.PRandom}, {"p_inverse", c.PInverse}} {
		if p.v < 0 || p.v > 1 {
			return errors.Wrapf(ErrConfiguration, "вероятность %s должна быть в диапазоне [0,1] (получено %f)", p.name, p.v)
		}
	}
	if sum := c.PLFT + c.PRandom + c.PInverse; sum > 1+probabilityTolerance {
		return errors.Wrapf(ErrConfiguration, "сумма вероятностей p_lft+p_random+p_inverse должна быть <= 1 (получено %f)", sum)
	}
	if c.PoolSize <= 0 {
		return errors.Wrapf(ErrConfiguration, "размер пула должен быть > 0 (получено %d)", c.PoolSize)
	}
	if c.MinHold <= 0 || c.MaxHold < c.MinHold {
		return errors.Wrapf(ErrConfiguration, "длины удержания ориентира должны удовлетворять 0 < min <= max (получено %d, %d)", c.MinHold, c.MaxHold)
	}
	if c.MaxSolutions <= 0 {
		return errors.Wrapf(ErrConfiguration, "максимальное число решений должно быть > 0 (получено %d)", c.MaxSolutions)
	}
	if c.MaxSolutions < c.PoolSize {
		return errors.Wrapf(ErrConfiguration, "максимальное число решений (%d) меньше размера пула (%d)", c.MaxSolutions, c.PoolSize)
	}
	if c.MaxStagnation <= 0 {
		return errors.Wrapf(ErrConfiguration, "предел стагнации должен быть > 0 (получено %d)", c.MaxStagnation)
	}
	if c.Replications <= 0 || c.TrueReplications <= 0 {
		return errors.Wrapf(ErrConfiguration, "число репликаций должно быть > 0 (получено %d и %d)", c.Replications, c.TrueReplications)
	}
	if _, err := distribution.Get(c.Distribution); err != nil {
		return errors.Wrap(ErrConfiguration, err.Error())
	}
	return nil
}

// LoadConfig читает конфигурацию из YAML-файла поверх DefaultConfig и проверяет её.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "чтение конфигурации %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "разбор конфигурации %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
