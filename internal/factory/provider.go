package factory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/config"
	"github.com/narrate/narrate/internal/health"
	"github.com/narrate/narrate/internal/provider"
)

// NewProvider creates the generative provider selected by config.
// Launches an optional async reachability probe; returns immediately so
// a slow provider cannot stall startup.
func NewProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) provider.Provider {
	var prov provider.Provider

	switch cfg.Provider {
	case "ollama":
		prov = provider.NewOllama(cfg.ProviderBaseURL, cfg.ProviderModel, cfg.ProviderTimeout())
	case "", "openai":
		prov = provider.NewOpenAI(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderModel, cfg.ProviderTimeout())
	default:
		log.Warn().Str("provider", cfg.Provider).Msg("unknown provider; using openai")
		prov = provider.NewOpenAI(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderModel, cfg.ProviderTimeout())
	}

	if pinger, ok := prov.(health.HealthPinger); ok {
		go func() {
			probeTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			if err := pinger.HealthPing(probeCtx); err != nil {
				log.Warn().Err(err).
					Str("provider", cfg.Provider).Str("model", cfg.ProviderModel).
					Msg("provider reachability probe failed")
			} else {
				log.Debug().Str("provider", cfg.Provider).Str("model", cfg.ProviderModel).
					Msg("provider reachability probe completed")
			}
		}()
	}

	return prov
}
