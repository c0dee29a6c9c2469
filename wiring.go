package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Commerce/agent/tool"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/adventure"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/wellness"
	configx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/config"
	qstashx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/qstash"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

type recordStores struct {
	products recordstore.Store[catalog.Product]
	orders   recordstore.Store[ledger.Order]
	checkins recordstore.Store[wellness.Checkin]
	close    func()
}

func openRecordStores(ctx context.Context, app AppConfig) (recordStores, error) {
	switch strings.ToLower(strings.TrimSpace(app.RecordBackend)) {
	case "", "file":
		products, err := recordstore.NewJSONFile[catalog.Product](filepath.Join(app.DataDir, "products.json"))
		if err != nil {
			return recordStores{}, err
		}
		orders, err := recordstore.NewJSONFile[ledger.Order](filepath.Join(app.DataDir, "orders.json"))
		if err != nil {
			return recordStores{}, err
		}
		checkins, err := recordstore.NewJSONFile[wellness.Checkin](filepath.Join(app.DataDir, "wellness_log.json"))
		if err != nil {
			return recordStores{}, err
		}
		return recordStores{products: products, orders: orders, checkins: checkins, close: func() {}}, nil

	case "postgres":
		pgCfg := configx.MustNew[recordstore.PostgresConfig]("POSTGRES")
		db, err := recordstore.OpenPostgres(ctx, *pgCfg)
		if err != nil {
			return recordStores{}, err
		}
		products, err := recordstore.NewPostgres[catalog.Product](db, "products")
		if err != nil {
			return recordStores{}, err
		}
		orders, err := recordstore.NewPostgres[ledger.Order](db, "orders")
		if err != nil {
			return recordStores{}, err
		}
		checkins, err := recordstore.NewPostgres[wellness.Checkin](db, "wellness_log")
		if err != nil {
			return recordStores{}, err
		}
		return recordStores{
			products: products,
			orders:   orders,
			checkins: checkins,
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("close postgres")
				}
			},
		}, nil

	default:
		return recordStores{}, fmt.Errorf("unknown record backend %q, want file or postgres", app.RecordBackend)
	}
}

func buildDeps(
	ctx context.Context,
	app AppConfig,
	qstashCfg qstashx.Config,
	publisher *qstashx.Client,
) (toolx.Deps, func(), error) {
	stores, err := openRecordStores(ctx, app)
	if err != nil {
		return toolx.Deps{}, nil, err
	}

	cat, err := catalog.Open(ctx, stores.products)
	if err != nil {
		stores.close()
		return toolx.Deps{}, nil, err
	}

	var ledgerOpts []ledger.Option
	if qstashCfg.Enabled() {
		destination := strings.TrimSpace(qstashCfg.Destination)
		ledgerOpts = append(ledgerOpts, ledger.WithNotifier(ledger.NotifierFunc(func(ctx context.Context, order ledger.Order) error {
			id, err := publisher.Publish(ctx, destination, order)
			if err != nil {
				return err
			}
			log.Info().Str("order_id", order.ID).Str("message_id", id).Msg("order notification queued")
			return nil
		})))
	}
	orders, err := ledger.Open(ctx, stores.orders, cat, ledgerOpts...)
	if err != nil {
		stores.close()
		return toolx.Deps{}, nil, err
	}

	checkins, err := wellness.NewLog(stores.checkins)
	if err != nil {
		stores.close()
		return toolx.Deps{}, nil, err
	}

	deps := toolx.Deps{
		Catalog:  cat,
		Ledger:   orders,
		Checkins: checkins,
	}

	// A broken world file only disables the adventure agent.
	world, err := adventure.LoadWorld(filepath.Join(app.DataDir, "world_setup.json"))
	if err != nil {
		log.Error().Err(err).Msg("adventure agent disabled")
	} else {
		deps.World = world
	}
	saves, err := adventure.NewSaves(app.DataDir, time.Now)
	if err != nil {
		log.Error().Err(err).Msg("game saves disabled")
	} else {
		deps.Saves = saves
	}

	return deps, stores.close, nil
}

func buildSessionStore(ctx context.Context, app AppConfig) (statex.Store, error) {
	opts := []statex.StoreOption{statex.WithTTL(app.SessionTTL)}

	switch strings.ToLower(strings.TrimSpace(app.SessionBackend)) {
	case "", "memory":
		return statex.NewMemoryStore(opts...)
	case "upstash":
		cfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		return statex.NewUpstashRedisStore(*cfg, opts...)
	case "redis":
		cfg := configx.MustNew[statex.RedisConfig]("REDIS")
		client, err := statex.NewRedisClient(ctx, *cfg)
		if err != nil {
			return nil, err
		}
		return statex.NewRedisStore(client, opts...)
	default:
		return nil, fmt.Errorf("unknown session backend %q, want memory, upstash or redis", app.SessionBackend)
	}
}
