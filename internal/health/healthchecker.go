package health

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (store, AI provider).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds component checkers into one service health flag.
// The service is healthy only while every component is.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	checks  []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, checks ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{checks: checks, log: log}
	h.healthy.Store(0)
	return h
}

// IsHealthy returns the cached service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Start re-evaluates component health on the given interval and logs transitions.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(0)
	eval := func() {
		var down []string
		for _, c := range h.checks {
			if !c.IsHealthy() {
				down = append(down, c.Name())
			}
		}
		now := int32(1)
		if len(down) > 0 {
			now = 0
		}
		h.healthy.Store(now)
		if now != prev {
			if now == 1 {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Str("unhealthy", strings.Join(down, ",")).Msg("service health: DOWN")
			}
			prev = now
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}
