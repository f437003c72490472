package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker rejects calls
var ErrUnavailable = errors.New("dependency temporarily unavailable")

// Config holds circuit breaker configuration
type Config struct {
	Name        string
	MaxRequests uint32        // Max requests allowed in half-open state
	Interval    time.Duration // Interval for resetting failure counts
	Timeout     time.Duration // Duration of open state before trying again
	MinRequests uint32        // Requests seen before the failure ratio is considered
	FailRatio   float64
}

// DefaultConfig returns the configuration used for the application sink
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailRatio:   0.6,
	}
}

// Breaker guards calls to one backend dependency
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker from cfg
func New(cfg Config) *Breaker {
	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})}
}

// Execute runs fn through the breaker. Client errors (invalid input, conflicts,
// missing records) pass through without counting as backend failures.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var clientErr error
	result, err := b.cb.Execute(func() (interface{}, error) {
		v, err := fn()
		if err != nil && isClientError(err) {
			clientErr = err
			return v, nil
		}
		return v, err
	})

	var zero T
	if clientErr != nil {
		return zero, clientErr
	}
	if err != nil {
		return zero, formatError(b.cb.Name(), err)
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %q: unexpected result type %T", b.cb.Name(), result)
	}
	return typed, nil
}

// State returns the current breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidInput) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrNotFound)
}

func formatError(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker %q: %w: %w", name, ErrUnavailable, err)
	}
	return err
}
