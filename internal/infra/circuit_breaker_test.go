package infra

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProvider = errors.New("provider down")

func sinError(context.Context) error { return nil }

func fallar(context.Context) error { return errProvider }

func failN(cb *CircuitBreaker, n int) {
	for range n {
		_ = cb.Execute(context.Background(), fallar)
	}
}

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})

	failN(cb, 2)
	assert.Equal(t, CBClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), sinError), "success resets the count")
	failN(cb, 2)
	assert.Equal(t, CBClosed, cb.State())

	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SemiAbierto(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})

	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// a failed trial call reopens
	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, cb.Execute(context.Background(), sinError))
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestCircuitBreaker_UnaSolaPruebaALaVez(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	failN(cb, 1)
	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(context.Background(), func(context.Context) error {
		// a second caller while the trial call is in flight is turned away
		return cb.Execute(context.Background(), sinError)
	})

	assert.ErrorIs(t, err, ErrCircuitOpen, "the nested call was rejected")
	assert.Equal(t, CBOpen, cb.State(), "the trial call saw a rejection and counts as failed")
}

func TestCircuitBreaker_CancelacionNoCuenta(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})

	t.Run("cancellation error", func(t *testing.T) {
		err := cb.Execute(context.Background(), func(context.Context) error {
			return fmt.Errorf("stream: %w", context.Canceled)
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, CBClosed, cb.State())
	})

	t.Run("caller context done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := cb.Execute(ctx, func(context.Context) error {
			cancel()
			return errProvider
		})
		assert.ErrorIs(t, err, errProvider)
		assert.Equal(t, CBClosed, cb.State())
	})

	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_CancelacionEnSemiAbiertoLiberaElTurno(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	failN(cb, 1)
	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, CBHalfOpen, cb.State())

	assert.NoError(t, cb.Execute(context.Background(), sinError), "next call is let through")
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_IgnorePersonalizado(t *testing.T) {
	errCliente := errors.New("400 bad request")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Ignore:           func(err error) bool { return errors.Is(err, errCliente) },
	})

	_ = cb.Execute(context.Background(), func(context.Context) error { return errCliente })
	assert.Equal(t, CBClosed, cb.State())

	// a custom Ignore replaces the cancellation default
	_ = cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	assert.Equal(t, CBOpen, cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, 5, cb.cfg.FailureThreshold)
	assert.Equal(t, 2, cb.cfg.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cb.cfg.OpenTimeout)
	assert.Equal(t, "default", cb.cfg.Name)
	assert.True(t, cb.cfg.Ignore(context.DeadlineExceeded))

	assert.Equal(t, "llm", DefaultCBConfig().Name)
}
