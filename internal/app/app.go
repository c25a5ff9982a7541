// Package app assembles the long-lived components from a config.Config. The
// HTTP server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/advisor"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/config"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/hydrator"
	"github.com/yourorg/lead-scout/internal/indexer"
	"github.com/yourorg/lead-scout/internal/leads"
	"github.com/yourorg/lead-scout/internal/redisx"
	"github.com/yourorg/lead-scout/internal/store"
	"github.com/yourorg/lead-scout/rapidapi"
)

type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Leads    *leads.Service
	Advisor  *advisor.Fallback
	Redis    *redisx.Client
	Store    *store.Store
	Bus      *events.Bus
	Index    *indexer.Indexer
	Hydrator *hydrator.Hydrator
	Sweep    *hydrator.SweepJob
	// ZipQueue runs on-demand sweeps; nil without a store.
	ZipQueue *hydrator.ZipQueue

	indexSub <-chan events.SearchCompleted
	storeSub <-chan events.SearchCompleted
}

// Build wires everything cfg enables. Redis is optional and skipped with a
// warning when unreachable; a configured store that cannot be opened is an
// error. On-demand sweeps are cancelled when ctx ends.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	source, err := buildSource(cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		rc := redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache disabled")
			_ = rc.Close()
		} else {
			a.Redis = rc
		}
	}

	if cfg.StoreDSN != "" {
		st, err := store.Open(cfg.StoreDriver, cfg.StoreDSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = st
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := st.Ping(sctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("store ping: %w", err)
		}
		if err := st.Migrate(sctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("store migrate: %w", err)
		}
	}

	var pub events.Publisher
	if a.Redis != nil || a.Store != nil {
		a.Bus = events.NewBus(256, log)
		pub = a.Bus
	}
	if a.Redis != nil {
		a.Index = &indexer.Indexer{Redis: a.Redis, TTL: cfg.CacheTTL, Log: log.With().Str("component", "indexer").Logger()}
		a.indexSub = a.Bus.Subscribe("indexer")
	}
	if a.Store != nil {
		a.Hydrator = &hydrator.Hydrator{Store: a.Store, Log: log.With().Str("component", "hydrator").Logger()}
		a.storeSub = a.Bus.Subscribe("hydrator")
	}

	a.Leads = leads.New(leads.Options{
		Source:         source,
		Redis:          a.Redis,
		Publisher:      pub,
		CacheTTL:       cfg.CacheTTL,
		StaleAfter:     cfg.CacheStaleAfter,
		NegativeTTL:    cfg.CacheNegativeTTL,
		RefreshWorkers: 2,
		Logger:         log,
	})

	var primary advisor.Advisor
	if cfg.OpenAIKey != "" {
		primary = advisor.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	a.Advisor = advisor.WithFallback(primary, advisor.Template{}, log)

	a.Sweep = &hydrator.SweepJob{
		Search: a.Leads,
		Log:    log.With().Str("component", "sweep").Logger(),
		Config: hydrator.SweepConfig{
			Zips:                 cfg.SweepZips,
			Schedule:             cfg.SweepSchedule,
			PauseBetweenRequests: cfg.SweepPause,
			RequestTimeout:       2 * time.Minute,
		},
	}
	if a.Store != nil {
		a.ZipQueue = hydrator.NewZipQueue(ctx, a.Sweep, 5*time.Minute)
	}
	return a, nil
}

func buildSource(cfg config.Config, log zerolog.Logger) (aggregate.Source, error) {
	if cfg.UseMock() {
		log.Warn().Str("data_source", cfg.DataSource).Msg("no listings API key in use, serving sample data")
		return aggregate.Mock{}, nil
	}
	providers, err := rapidapi.Build(cfg.Providers, cfg.ProviderOverrides)
	if err != nil {
		return nil, err
	}
	client := rapidapi.NewClient(cfg.RapidAPIKey, rapidapi.ClientOptions{
		Timeout:  cfg.ProviderTimeout,
		RetryMax: cfg.ProviderRetryMax,
		RPS:      cfg.ProviderRPS,
		Logger:   log,
	})
	agg := aggregate.New(client, providers, aggregate.Options{PageSize: cfg.PageSize, Logger: log})
	if !client.Configured() {
		log.Error().Msg("DATA_SOURCE=live without RAPIDAPI_KEY, searches will fail")
	}
	log.Info().Strs("providers", agg.Providers()).Msg("live data source")
	return aggregate.NewLive(agg, client.Configured()), nil
}

// Start launches the event consumers. They stop when ctx ends or the bus is
// closed.
func (a *App) Start(ctx context.Context) {
	if a.Index != nil {
		go a.Index.Run(ctx, a.indexSub)
	}
	if a.Hydrator != nil {
		go a.Hydrator.Run(ctx, a.storeSub)
	}
	if a.Config.SweepInServer && a.ZipSweeper() != nil && len(a.Config.SweepZips) > 0 {
		go func() {
			if err := a.Sweep.Run(ctx); err != nil {
				a.Log.Error().Err(err).Msg("sweep: stopped with error")
			}
		}()
	}
}

// ZipSweeper returns the sweep job when results can be persisted, else nil.
func (a *App) ZipSweeper() *hydrator.SweepJob {
	if a.Store == nil {
		return nil
	}
	return a.Sweep
}

func (a *App) Close() {
	if a.ZipQueue != nil {
		a.ZipQueue.Close()
	}
	if a.Leads != nil {
		a.Leads.Close()
	}
	if a.Bus != nil {
		a.Bus.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
