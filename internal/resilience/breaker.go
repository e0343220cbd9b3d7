// Package resilience provides composable wrappers for calls to external,
// flaky dependencies: a circuit breaker, retry with jittered backoff, and a
// graceful-degradation chain. The wrappers are independent and can be stacked.
package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BreakerState is the current state of a circuit breaker.
type BreakerState string

const (
	// StateClosed lets calls through and counts consecutive failures.
	StateClosed BreakerState = "closed"
	// StateOpen rejects calls immediately until the reset timeout elapses.
	StateOpen BreakerState = "open"
	// StateHalfOpen lets a single trial call through.
	StateHalfOpen BreakerState = "half_open"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// attempting the downstream dependency.
type ErrCircuitOpen struct {
	Name       string
	RetryAfter time.Duration
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit %q open, retry after %s", e.Name, e.RetryAfter.Round(time.Millisecond))
}

// BreakerConfig holds circuit breaker tuning.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit.
	FailureThreshold int
	// ResetTimeout is how long the circuit stays open before allowing a
	// half-open trial call.
	ResetTimeout time.Duration
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker protects a dependency from being hammered while it is down.
// It transitions CLOSED → OPEN after FailureThreshold consecutive failures,
// OPEN → HALF_OPEN once ResetTimeout elapses, and HALF_OPEN → CLOSED on a
// trial success (or back to OPEN on a trial failure, resetting the clock).
type CircuitBreaker struct {
	name   string
	config BreakerConfig

	mu            sync.Mutex
	state         BreakerState
	failures      int
	openedAt      time.Time
	trialInFlight bool

	// now is swapped in tests to control the clock.
	now func() time.Time
}

// NewCircuitBreaker creates a closed breaker with the given name for logs
// and error messages.
func NewCircuitBreaker(name string, config BreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = DefaultBreakerConfig().ResetTimeout
	}
	return &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// State returns the breaker's current state, accounting for reset timeout
// expiry.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.ResetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Execute runs fn under the breaker. While open it returns *ErrCircuitOpen
// without calling fn at all.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn(ctx)
	cb.after(err)
	return err
}

// before decides whether the call may proceed.
func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		elapsed := cb.now().Sub(cb.openedAt)
		if elapsed < cb.config.ResetTimeout {
			return &ErrCircuitOpen{Name: cb.name, RetryAfter: cb.config.ResetTimeout - elapsed}
		}
		// Timeout elapsed: allow exactly one trial call.
		cb.state = StateHalfOpen
		cb.trialInFlight = true
		return nil
	case StateHalfOpen:
		if cb.trialInFlight {
			return &ErrCircuitOpen{Name: cb.name, RetryAfter: cb.config.ResetTimeout}
		}
		cb.trialInFlight = true
		return nil
	}
	return nil
}

// after records the call outcome and updates the state machine.
func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.trialInFlight = false
		if err != nil {
			// Trial failed: reopen and restart the reset clock.
			cb.state = StateOpen
			cb.openedAt = cb.now()
			cb.failures = cb.config.FailureThreshold
			return
		}
		// Trial succeeded: fully close.
		cb.state = StateClosed
		cb.failures = 0
		return
	}

	if err != nil {
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.openedAt = cb.now()
		}
		return
	}
	cb.failures = 0
}
