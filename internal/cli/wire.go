package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/cashdesk"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/config"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/events/noop"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/identity"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/registry"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage/sqlite"
)

type closer interface {
	Close() error
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openKV opens the configured blob store. The returned closer is never nil.
func openKV(ctx context.Context, cfg config.Config) (interfaces.KVStore, closer, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewMemoryKVStore(), nopCloser{}, nil
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StoragePostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

type eventPublisher interface {
	interfaces.EventPublisher
	closer
}

func openPublisher(cfg config.Config) eventPublisher {
	if !cfg.PublishingEnabled() {
		return noop.Publisher{}
	}
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// openDesk wires storage, identity, registry and publisher into a desk.
// The returned cleanup releases everything opened here.
func openDesk(ctx context.Context, cfg config.Config, log zerolog.Logger) (*cashdesk.Desk, func(), error) {
	kv, kvCloser, err := openKV(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	dir, err := identity.Default()
	if err != nil {
		kvCloser.Close()
		return nil, nil, err
	}

	pub := openPublisher(cfg)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
		if err := kvCloser.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage")
		}
	}

	desk, err := cashdesk.Open(ctx, cashdesk.Deps{
		Registry:     registry.Default(),
		Directory:    dir,
		KV:           kv,
		Publisher:    pub,
		Log:          log,
		OpeningFloat: cfg.OpeningFloat,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	log.Debug().
		Str("storage", cfg.Storage).
		Bool("publishing", cfg.PublishingEnabled()).
		Msg("Cash desk ready")
	return desk, cleanup, nil
}
