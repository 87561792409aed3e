package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck pings one external dependency.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the last snapshot of dependency health in memory so
// the health endpoint never blocks on a slow dependency.
type HealthMonitor struct {
	checks   map[string]HealthCheck
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(checks map[string]HealthCheck, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		checks:   checks,
		interval: interval,
		logger:   logger,
		current:  HealthStatus{Checks: map[string]bool{}},
	}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := HealthStatus{Checks: make(map[string]bool, len(m.current.Checks)), CheckedAt: m.current.CheckedAt}
	for k, v := range m.current.Checks {
		out.Checks[k] = v
	}
	return out
}

// Refresh runs every check once and stores the result.
func (m *HealthMonitor) Refresh(ctx context.Context) {
	results := make(map[string]bool, len(m.checks))
	for name, check := range m.checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(cctx)
		cancel()
		if err != nil {
			m.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		}
		results[name] = err == nil
	}

	m.mu.Lock()
	m.current = HealthStatus{Checks: results, CheckedAt: time.Now().UTC()}
	m.mu.Unlock()
}

// Start performs periodic health checks until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context) {
	go func() {
		m.Refresh(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Refresh(ctx)
			}
		}
	}()
}
