package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// PingChecker adapts a HealthPinger into a HealthChecker by polling it.
type PingChecker struct {
	name    string
	pinger  HealthPinger
	healthy atomic.Int32
	log     zerolog.Logger
}

func NewPingChecker(name string, pinger HealthPinger, log zerolog.Logger) *PingChecker {
	c := &PingChecker{name: name, pinger: pinger, log: log}
	c.healthy.Store(0)
	return c
}

func (c *PingChecker) Name() string    { return c.name }
func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

// Start polls the pinger until ctx is cancelled. Each probe gets its own
// timeout so a hung dependency cannot stall the loop.
func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := c.pinger.HealthPing(probeCtx); err != nil {
			if c.healthy.Swap(0) == 1 {
				c.log.Error().Err(err).Str("component", c.name).Msg("dependency health: DOWN")
			}
			return
		}
		if c.healthy.Swap(1) == 0 {
			c.log.Info().Str("component", c.name).Msg("dependency health: UP")
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
