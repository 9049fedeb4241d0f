package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/config"
	"github.com/narrate/narrate/internal/health"
	storepkg "github.com/narrate/narrate/internal/store"
	storepg "github.com/narrate/narrate/internal/store/postgres"
	storelite "github.com/narrate/narrate/internal/store/sqlite"
)

// NewStore builds the store selected by cfg.DBDriver.
// Postgres schema bootstrap runs async so startup stays fast; sqlite
// applies its schema inline since the database is local.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, health.HealthPinger, error) {
	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("NARRATE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		go func() {
			bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
			bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
			defer cancel()

			if err := storepg.Bootstrap(bootstrapCtx, db); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap check failed")
			} else {
				log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap check completed")
			}
		}()

		st := storepg.NewWithDB(db)
		pinger, _ := st.(health.HealthPinger)
		return st, pinger, nil

	case "sqlite":
		db, err := storelite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		st, err := storelite.NewWithDB(db)
		if err != nil {
			return nil, nil, err
		}
		pinger, _ := st.(health.HealthPinger)
		return st, pinger, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
