// Package leads turns a search request into scored, filtered leads. It sits
// between the HTTP layer and the data source and owns the optional Redis
// result cache.
package leads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/redisx"
	"github.com/yourorg/lead-scout/internal/refresh"
	"github.com/yourorg/lead-scout/internal/scoring"
)

var ErrLocationRequired = errors.New("a zip code or a city and state is required")

// validate normalizes the location and rejects filters no provider could
// answer. Every zip code given must be five digits.
func validate(f models.SearchFilters) (models.SearchFilters, error) {
	f = f.Normalized()
	for _, z := range f.ZipCodes {
		if !models.IsZipCode(z) {
			return f, fmt.Errorf("%w: invalid zip code %q", ErrLocationRequired, z)
		}
	}
	if !f.HasLocation() {
		return f, ErrLocationRequired
	}
	return f, nil
}

// Result is what a search hands back to callers.
type Result struct {
	Properties     []models.Property `json:"properties"`
	ProviderErrors []string          `json:"providerErrors,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	Mock           bool              `json:"mock,omitempty"`
}

type Options struct {
	Source aggregate.Source
	// Redis enables the result cache when non-nil.
	Redis          *redisx.Client
	Publisher      events.Publisher
	CacheTTL       time.Duration
	StaleAfter     time.Duration
	NegativeTTL    time.Duration
	RefreshWorkers int
	Now            func() time.Time
	Logger         zerolog.Logger
}

type Service struct {
	source      aggregate.Source
	redis       *redisx.Client
	pub         events.Publisher
	ttl         time.Duration
	staleAfter  time.Duration
	negativeTTL time.Duration
	now         func() time.Time
	log         zerolog.Logger
	refresher   *refresh.Refresher
}

func New(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.StaleAfter <= 0 || opts.StaleAfter > opts.CacheTTL {
		opts.StaleAfter = opts.CacheTTL
	}
	s := &Service{
		source:      opts.Source,
		redis:       opts.Redis,
		pub:         opts.Publisher,
		ttl:         opts.CacheTTL,
		staleAfter:  opts.StaleAfter,
		negativeTTL: opts.NegativeTTL,
		now:         opts.Now,
		log:         opts.Logger.With().Str("component", "leads").Logger(),
	}
	if s.redis != nil {
		s.refresher = refresh.New(256, opts.RefreshWorkers, time.Minute, s.revalidate)
	}
	return s
}

// SourceName reports "live" or "mock".
func (s *Service) SourceName() string { return s.source.Name() }

// Close drains background revalidation.
func (s *Service) Close() {
	if s.refresher != nil {
		s.refresher.Close()
	}
}

// Search validates f, serves from cache when possible and otherwise asks the
// source, scores the results and applies the post-score filters. A search
// that found nothing returns an error satisfying aggregate.IsExhausted whose
// provider errors explain why.
func (s *Service) Search(ctx context.Context, f models.SearchFilters, strategy aggregate.Strategy) (Result, error) {
	f, err := validate(f)
	if err != nil {
		return Result{}, err
	}
	key := cacheKey(f, strategy)
	if s.redis != nil {
		if res, ok, err := s.fromCache(ctx, key, f, strategy); ok {
			return res, err
		}
	}
	return s.compute(ctx, key, f, strategy)
}

// Sweep runs an uncached search, refreshing the cache and the event
// consumers, and reports how many properties the providers returned.
func (s *Service) Sweep(ctx context.Context, f models.SearchFilters) (int, error) {
	f, err := validate(f)
	if err != nil {
		return 0, err
	}
	scored, _, err := s.fetch(ctx, cacheKey(f, aggregate.FirstHit), f, aggregate.FirstHit)
	return len(scored), err
}

func (s *Service) compute(ctx context.Context, key string, f models.SearchFilters, strategy aggregate.Strategy) (Result, error) {
	scored, res, err := s.fetch(ctx, key, f, strategy)
	if err != nil {
		return res, err
	}
	res.Properties = scoring.Filter(scored, f)
	return res, nil
}

// fetch asks the source and scores the answer. Live answers are published
// and cached; sample data never is.
func (s *Service) fetch(ctx context.Context, key string, f models.SearchFilters, strategy aggregate.Strategy) ([]models.Property, Result, error) {
	ar, err := s.source.Search(ctx, f, strategy)
	out := Result{ProviderErrors: ar.ProviderErrors, Provider: ar.Provider(), Mock: ar.Mock}
	if err != nil {
		out.Properties = []models.Property{}
		if aggregate.IsExhausted(err) && !ar.Mock {
			s.rememberMiss(ctx, key, aggregate.ProviderErrors(err))
		}
		return nil, out, err
	}
	scored := scoring.Apply(ar.Properties)
	if ar.Mock {
		return scored, out, nil
	}

	if s.pub != nil {
		evt := events.SearchCompleted{At: s.now(), Filters: f, Properties: scored}
		for _, h := range ar.Hits {
			evt.Snapshots = append(evt.Snapshots, events.Snapshot{Provider: h.Provider, Location: h.Filters.Location(), Raw: h.Raw})
		}
		s.pub.PublishSearchCompleted(ctx, evt)
	}
	if s.redis != nil {
		s.store(ctx, key, envelope{
			Scored:         scored,
			ProviderErrors: ar.ProviderErrors,
			Provider:       out.Provider,
			LastFetchAt:    s.now(),
		})
	}
	return scored, out, nil
}

func cacheKey(f models.SearchFilters, strategy aggregate.Strategy) string {
	b, _ := json.Marshal(struct {
		F models.SearchFilters
		S aggregate.Strategy
	}{f, strategy})
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
