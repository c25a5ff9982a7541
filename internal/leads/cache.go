package leads

import (
	"context"
	"time"

	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/refresh"
	"github.com/yourorg/lead-scout/internal/scoring"
)

func searchKey(hash string) string { return "leads:search:" + hash }
func missKey(hash string) string   { return "leads:miss:" + hash }
func lockKey(hash string) string   { return "leads:lock:" + hash }

// envelope is the cached form of a search: scored but not yet filtered.
type envelope struct {
	Scored         []models.Property `json:"scored"`
	ProviderErrors []string          `json:"provider_errors,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	LastFetchAt    time.Time         `json:"last_fetch_at"`
}

type miss struct {
	ProviderErrors []string `json:"provider_errors"`
}

// fromCache answers from Redis. ok is false when the caller has to compute.
// Stale entries are served and queued for revalidation.
func (s *Service) fromCache(ctx context.Context, key string, f models.SearchFilters, strategy aggregate.Strategy) (Result, bool, error) {
	var m miss
	if found, err := s.redis.GetJSON(ctx, missKey(key), &m); err != nil {
		s.log.Warn().Err(err).Msg("cache: negative lookup failed")
	} else if found {
		return Result{Properties: []models.Property{}, ProviderErrors: m.ProviderErrors},
			true, &aggregate.ExhaustedError{ProviderErrors: m.ProviderErrors}
	}

	var env envelope
	found, err := s.redis.GetJSON(ctx, searchKey(key), &env)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache: lookup failed")
		return Result{}, false, nil
	}
	if !found {
		return Result{}, false, nil
	}
	if s.now().Sub(env.LastFetchAt) >= s.staleAfter && s.claimRefresh(ctx, key) {
		if s.refresher.Enqueue(refresh.Job{Key: key, Filters: f, Merge: strategy == aggregate.Merge}) {
			s.log.Debug().Str("location", f.Location()).Msg("cache: stale, revalidating")
		}
	}
	return Result{
		Properties:     scoring.Filter(env.Scored, f),
		ProviderErrors: env.ProviderErrors,
		Provider:       env.Provider,
	}, true, nil
}

// claimRefresh takes a short lock so only one instance revalidates a stale
// entry. Redis errors fall back to the local de-duplication.
func (s *Service) claimRefresh(ctx context.Context, key string) bool {
	ok, err := s.redis.SetNX(ctx, lockKey(key), "1", 30*time.Second)
	if err != nil {
		return true
	}
	return ok
}

func (s *Service) store(ctx context.Context, key string, env envelope) {
	if err := s.redis.SetJSON(ctx, searchKey(key), env, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("cache: write failed")
		return
	}
	if err := s.redis.Del(ctx, missKey(key)); err != nil {
		s.log.Warn().Err(err).Msg("cache: clearing miss failed")
	}
}

func (s *Service) rememberMiss(ctx context.Context, key string, providerErrors []string) {
	if s.redis == nil || s.negativeTTL <= 0 {
		return
	}
	if err := s.redis.SetJSON(ctx, missKey(key), miss{ProviderErrors: providerErrors}, s.negativeTTL); err != nil {
		s.log.Warn().Err(err).Msg("cache: negative write failed")
	}
}

func (s *Service) revalidate(ctx context.Context, j refresh.Job) {
	strategy := aggregate.FirstHit
	if j.Merge {
		strategy = aggregate.Merge
	}
	if _, _, err := s.fetch(ctx, j.Key, j.Filters, strategy); err != nil && !aggregate.IsExhausted(err) {
		s.log.Warn().Err(err).Str("location", j.Filters.Location()).Msg("cache: revalidation failed")
	}
}
