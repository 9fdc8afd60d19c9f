// Package parallel — пул воркеров для независимых задач.
package parallel

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Func — вычисление задачи с номером i.
// Задачи не должны разделять изменяемое состояние.
type Func[T any] func(ctx context.Context, i int) (T, error)

// Map выполняет n задач на workers горутинах и возвращает результаты
// в порядке номеров задач. После первой ошибки оставшиеся задачи не запускаются;
// возвращается объединение всех полученных ошибок.
func Map[T any](ctx context.Context, workers, n int, fn Func[T]) ([]T, error) {
	if workers <= 0 {
		return nil, errors.Errorf("число воркеров должно быть > 0 (получено %d)", workers)
	}
	if n < 0 {
		return nil, errors.Errorf("число задач должно быть >= 0 (получено %d)", n)
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]T, n)
	tasks := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				out, err := fn(ctx, i)
				if err != nil {
					mu.Lock()
					errs = multierr.Append(errs, errors.Wrapf(err, "задача %d", i))
					mu.Unlock()
					cancel()
					continue
				}
				results[i] = out
			}
		}()
	}

	fed := 0
feed:
	for i := 0; i < n; i++ {
		select {
		case tasks <- i:
			fed++
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	if errs != nil {
		return nil, errs
	}
	if fed < n {
		return nil, errors.Wrapf(ctx.Err(), "запущено %d из %d задач", fed, n)
	}
	return results, nil
}
