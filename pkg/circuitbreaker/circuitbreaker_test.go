package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }

func succeeding() error { return nil }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    3,
		SuccessThreshold:    1,
		Timeout:             time.Hour,
		HalfOpenMaxRequests: 1,
	})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(failing), errBoom)
	}
	require.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrCircuitBreakerOpen)
	require.False(t, called)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	// A zero timeout moves the breaker to half-open on the next call.
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    1,
		SuccessThreshold:    2,
		Timeout:             0,
		HalfOpenMaxRequests: 3,
	})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())

	require.NoError(t, cb.Execute(succeeding))
	require.Equal(t, StateHalfOpen, cb.GetState())

	require.NoError(t, cb.Execute(succeeding))
	require.NoError(t, cb.Execute(succeeding))
	require.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    1,
		SuccessThreshold:    2,
		Timeout:             0,
		HalfOpenMaxRequests: 3,
	})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             time.Hour,
		HalfOpenMaxRequests: 1,
	})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.NoError(t, cb.Execute(succeeding))
	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateClosed, cb.GetState())
}

func TestResetClosesBreaker(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    1,
		SuccessThreshold:    1,
		Timeout:             time.Hour,
		HalfOpenMaxRequests: 1,
	})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	require.Equal(t, StateClosed, cb.GetState())
	require.NoError(t, cb.Execute(succeeding))
}
