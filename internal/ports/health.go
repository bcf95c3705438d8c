package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds one check unless the caller's deadline is sooner.
const DefaultCheckTimeout = 2 * time.Second

// maxConcurrentChecks caps how many checks run at once during CheckAll.
const maxConcurrentChecks = 8

// ErrDuplicateChecker is returned by Register when the name is taken.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is a component that can report whether it can serve traffic.
// Check must return promptly once ctx is done.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them for readiness.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is "healthy" or "unhealthy".
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the readiness verdict. Status is unhealthy when any check is.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one checker. Message holds the error text.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RegistryOption configures a CheckRegistry.
type RegistryOption func(*CheckRegistry)

// WithCheckTimeout bounds each check by d. Non-positive d leaves checks
// bounded only by the caller's context.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *CheckRegistry) {
		r.timeout = d
	}
}

// CheckRegistry runs its checkers concurrently. Safe for concurrent use.
type CheckRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

var _ HealthRegistry = (*CheckRegistry)(nil)

// NewHealthRegistry returns an empty registry using DefaultCheckTimeout.
func NewHealthRegistry(opts ...RegistryOption) *CheckRegistry {
	r := &CheckRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *CheckRegistry) Register(checker HealthChecker) error {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.checkers[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers[name] = checker

	return nil
}

// Len reports how many checkers are registered.
func (r *CheckRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.checkers)
}

func (r *CheckRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	results := make(map[string]*CheckResult, len(r.checkers))
	checkers := make([]HealthChecker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	g.SetLimit(maxConcurrentChecks)

	for _, checker := range checkers {
		g.Go(func() error {
			res := r.run(ctx, checker)

			mu.Lock()
			results[checker.Name()] = res
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	status := HealthStatusHealthy
	for _, res := range results {
		if res.Status == HealthStatusUnhealthy {
			status = HealthStatusUnhealthy
			break
		}
	}

	return &HealthResult{Status: status, Checks: results, Timestamp: time.Now().UTC()}
}

func (r *CheckRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := checker.Check(ctx)
	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
