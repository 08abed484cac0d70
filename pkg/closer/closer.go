// Package closer обеспечивает упорядоченное закрытие ресурсов приложения.
package closer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

// Closer закрывает зарегистрированные ресурсы в порядке LIFO.
// Если контекст отменяется до завершения, оставшиеся ресурсы
// закрываются принудительно с собственным таймаутом.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	funcs         []Func
	names         []string
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout — время, отводимое на
// принудительное закрытие при таймауте контекста в Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout == 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия под человекочитаемым именем.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
	c.names = append(c.names, name)
}

// Close запускает закрытие всех зарегистрированных ресурсов (LIFO).
// Повторные вызовы — no-op.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs, names := c.funcs, c.names
		c.mu.Unlock()

		var errs []error
		for i := len(funcs) - 1; i >= 0; i-- {
			done := make(chan error, 1)
			f := funcs[i]
			go func() { done <- f(ctx) }()

			select {
			case closeErr := <-done:
				if closeErr != nil {
					errs = append(errs, fmt.Errorf("%s: %w", names[i], closeErr))
				}
			case <-ctx.Done():
				// Контекст истёк — закрываем остаток принудительно и параллельно
				errs = append(errs, c.forceClose(funcs[:i], names[:i])...)
				err = joined("shutdown interrupted", errs)
				return
			}
		}

		if len(errs) > 0 {
			err = joined("shutdown finished with error(s)", errs)
		}
	})

	return err
}

func (c *Closer) forceClose(funcs []Func, names []string) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i, f := range funcs {
		i, f := i, f
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("[forced] %s: %w", names[i], err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}

func joined(msg string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	out := fmt.Errorf("%s:", msg)
	for _, err := range errs {
		out = fmt.Errorf("%w\n%v", out, err)
	}
	return out
}
