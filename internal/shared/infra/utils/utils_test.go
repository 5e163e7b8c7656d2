package utils

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var errTemporal = errors.New("temporal")

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantErr   error
		wantCalls int
	}{
		{name: "éxito al primer intento", failures: 0, attempts: 3, wantErr: nil, wantCalls: 1},
		{name: "éxito tras dos fallos", failures: 2, attempts: 3, wantErr: nil, wantCalls: 3},
		{name: "agota los intentos", failures: 5, attempts: 3, wantErr: errTemporal, wantCalls: 3},
		{name: "cero intentos ejecuta una vez", failures: 5, attempts: 0, wantErr: errTemporal, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return errTemporal
				}
				return nil
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetryIf_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanente")
	calls := 0
	err := RetryIf(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return permanent
	}, func(err error) bool { return errors.Is(err, errTemporal) })

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return errTemporal })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTernary(t *testing.T) {
	assert.Equal(t, 1, Ternary(true, 1, 2))
	assert.Equal(t, "b", Ternary(false, "a", "b"))
}

func TestUnmarshalAndHandle(t *testing.T) {
	var got map[string]int
	UnmarshalAndHandle(zap.NewNop(), json.RawMessage(`{"a":1}`), func(v map[string]int) { got = v })
	assert.Equal(t, 1, got["a"])

	called := false
	UnmarshalAndHandle(zap.NewNop(), json.RawMessage(`no-json`), func(map[string]int) { called = true })
	assert.False(t, called)
}
