package utils

import (
	"context"
	"time"
)

// Retry ejecuta una función con reintentos configurables
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return RetryIf(ctx, attempts, delay, fn, func(error) bool { return true })
}

// RetryIf solo reintenta mientras retryable(err) sea cierto. No espera tras el último intento.
func RetryIf(ctx context.Context, attempts int, delay time.Duration, fn func() error, retryable func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !retryable(err) || i == attempts-1 {
			return err
		}

		select {
		case <-time.After(delay):
			// espera antes del siguiente intento
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
