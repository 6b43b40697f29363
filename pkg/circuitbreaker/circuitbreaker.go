package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitBreakerOpen is returned when the breaker rejects a call
// without executing it.
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// State is the current mode of the breaker.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls are rejected immediately
	StateHalfOpen              // a limited number of trial calls pass through
)

// Config tunes the breaker thresholds.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int
	// SuccessThreshold is the number of successful trial calls that
	// closes the breaker again.
	SuccessThreshold int
	// Timeout is how long the breaker stays open before allowing trial
	// calls.
	Timeout time.Duration
	// HalfOpenMaxRequests caps concurrent trial calls while half-open.
	HalfOpenMaxRequests int
}

// DefaultConfig returns thresholds that suit a background publisher.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// CircuitBreaker shields a flaky downstream from repeated calls. After
// FailureThreshold consecutive failures it rejects calls outright, then
// periodically lets trial calls through until the downstream recovers.
type CircuitBreaker struct {
	config Config

	state         State
	failureCount  int
	successCount  int
	halfOpenCount int
	lastStateTime time.Time

	mu sync.RWMutex
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		state:         StateClosed,
		lastStateTime: time.Now(),
	}
}

// Execute runs fn under breaker protection. While the breaker is open it
// returns ErrCircuitBreakerOpen without calling fn; otherwise it returns
// whatever fn returns.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()

	cb.checkStateTransition()

	switch cb.state {
	case StateOpen:
		cb.mu.Unlock()
		return ErrCircuitBreakerOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			cb.mu.Unlock()
			return ErrCircuitBreakerOpen
		}
		cb.halfOpenCount++
	}

	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}

	return err
}

// checkStateTransition advances the timeout-gated open to half-open move.
// The threshold transitions happen eagerly in onFailure/onSuccess, so
// GetState never reports closed for a breaker that has already tripped.
// Caller holds cb.mu.
func (cb *CircuitBreaker) checkStateTransition() {
	now := time.Now()
	if cb.state == StateOpen && now.Sub(cb.lastStateTime) >= cb.config.Timeout {
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		cb.successCount = 0
		cb.lastStateTime = now
	}
}

// onFailure records a failed call. Crossing the failure threshold opens the
// breaker; a failure while half-open reopens it immediately. Caller holds
// cb.mu.
func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.lastStateTime = time.Now()
		}
	case StateHalfOpen:
		cb.state = StateOpen
		cb.halfOpenCount = 0
		cb.lastStateTime = time.Now()
	}
}

// onSuccess records a successful call. Reaching the success threshold while
// half-open closes the breaker. Caller holds cb.mu.
func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0

	if cb.state == StateHalfOpen {
		cb.successCount++
		cb.halfOpenCount--
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.lastStateTime = time.Now()
		}
	}
}

// GetState reports the current state.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forces the breaker back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenCount = 0
	cb.lastStateTime = time.Now()
}
