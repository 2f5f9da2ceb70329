package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Breaker guarding the LLM provider. After FailureThreshold consecutive
// provider failures it opens and the chat answers with the apology right
// away; after OpenTimeout a single trial call is let through.
//
// Only provider failures count. A call that ends because the caller went
// away (client disconnect, request deadline) leaves the counters untouched.

// CBState is the breaker state reported by /health.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling the provider while the breaker
// is open, or while a half-open trial call is already in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string        // used in state-change logs
	FailureThreshold int           // consecutive failures to open (default 5)
	SuccessThreshold int           // half-open successes to close (default 2)
	OpenTimeout      time.Duration // time open before probing (default 30s)
	// Ignore reports errors that say nothing about the provider. Defaults to
	// context cancellation and deadline errors.
	Ignore func(error) bool
}

// DefaultCBConfig is the configuration of the LLM breaker.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "llm",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      30 * time.Second,
	}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	fallos    int
	exitos    int
	probando  bool
	abiertoEn time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Ignore == nil {
		cfg.Ignore = esCancelacion
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	return &CircuitBreaker{cfg: cfg}
}

func esCancelacion(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// State returns the current state, moving open to half-open once the
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura()
	return cb.state
}

// Execute runs fn unless the breaker is open. fn gets ctx unchanged; when fn
// fails and ctx is already done, or the error is ignored, the outcome is not
// recorded.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.permitir(); err != nil {
		return err
	}
	err := fn(ctx)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probando = false
	switch {
	case err == nil:
		cb.registrarExito()
	case ctx.Err() != nil || cb.cfg.Ignore(err):
		// not recorded; in half-open the next call is let through
	default:
		cb.registrarFallo()
	}
	return err
}

func (cb *CircuitBreaker) permitir() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura()
	switch cb.state {
	case CBOpen:
		return ErrCircuitOpen
	case CBHalfOpen:
		if cb.probando {
			return ErrCircuitOpen
		}
		cb.probando = true
	}
	return nil
}

// must hold mu
func (cb *CircuitBreaker) vencerApertura() {
	if cb.state == CBOpen && time.Since(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.cambiarEstado(CBHalfOpen)
	}
}

// must hold mu
func (cb *CircuitBreaker) registrarFallo() {
	switch cb.state {
	case CBClosed:
		cb.fallos++
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.cambiarEstado(CBOpen)
		}
	case CBHalfOpen:
		cb.cambiarEstado(CBOpen)
	}
}

// must hold mu
func (cb *CircuitBreaker) registrarExito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.cambiarEstado(CBClosed)
		}
	}
}

// must hold mu
func (cb *CircuitBreaker) cambiarEstado(nuevo CBState) {
	if cb.state == nuevo {
		return
	}
	ev := log.Info()
	if nuevo == CBOpen {
		ev = log.Warn().Int("fallos", cb.fallos)
		cb.abiertoEn = time.Now()
	}
	ev.Str("breaker", cb.cfg.Name).
		Str("desde", cb.state.String()).
		Str("hacia", nuevo.String()).
		Msg("circuit breaker state change")
	cb.state = nuevo
	cb.fallos = 0
	cb.exitos = 0
}
