package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/rapidapi"
	"golang.org/x/sync/errgroup"
)

// Fetcher performs the outbound call for one provider. *rapidapi.Client
// implements it.
type Fetcher interface {
	Fetch(ctx context.Context, p rapidapi.Provider, req rapidapi.Request) ([]byte, error)
}

// Hit records which provider answered for one location.
type Hit struct {
	Filters  models.SearchFilters
	Provider string
	Raw      []byte
	Count    int
}

// Result is the outcome of one search.
type Result struct {
	Properties     []models.Property
	ProviderErrors []string
	Hits           []Hit
	// Mock is set when the results are sample data.
	Mock bool
}

// Provider names the provider behind the first hit, or "".
func (r Result) Provider() string {
	if len(r.Hits) == 0 {
		return ""
	}
	return r.Hits[0].Provider
}

type Options struct {
	PageSize int
	// Now is injected so days-on-market derivation is testable.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Aggregator walks an ordered provider list.
type Aggregator struct {
	fetch     Fetcher
	providers []rapidapi.Provider
	pageSize  int
	now       func() time.Time
	log       zerolog.Logger
}

func New(fetch Fetcher, providers []rapidapi.Provider, opts Options) *Aggregator {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		fetch:     fetch,
		providers: providers,
		pageSize:  opts.PageSize,
		now:       opts.Now,
		log:       opts.Logger.With().Str("component", "aggregator").Logger(),
	}
}

// Providers returns the configured names in priority order.
func (a *Aggregator) Providers() []string {
	out := make([]string, len(a.providers))
	for i, p := range a.providers {
		out[i] = p.Config().Name
	}
	return out
}

// Search tries providers in order and returns the first non-empty normalized
// list. Each provider is called at most once. When all of them fail or come
// back empty the error is an *ExhaustedError with one entry per provider.
func (a *Aggregator) Search(ctx context.Context, f models.SearchFilters) (Result, error) {
	var errs []string
	for _, p := range a.providers {
		if err := ctx.Err(); err != nil {
			return Result{ProviderErrors: errs}, err
		}
		props, raw, err := a.query(ctx, p, f)
		name := p.Config().Name
		if err != nil {
			if ctx.Err() != nil {
				return Result{ProviderErrors: errs}, ctx.Err()
			}
			a.log.Warn().Err(err).Str("provider", name).Str("location", f.Location()).Msg("provider failed")
			errs = append(errs, fmt.Sprintf("%s: %s", name, err))
			continue
		}
		if len(props) == 0 {
			a.log.Debug().Str("provider", name).Str("location", f.Location()).Msg("provider returned nothing")
			errs = append(errs, fmt.Sprintf("%s: no properties returned", name))
			continue
		}
		a.log.Info().Str("provider", name).Int("count", len(props)).Str("location", f.Location()).Msg("provider hit")
		return Result{
			Properties:     props,
			ProviderErrors: errs,
			Hits:           []Hit{{Filters: f, Provider: name, Raw: raw, Count: len(props)}},
		}, nil
	}
	return Result{Properties: []models.Property{}, ProviderErrors: errs}, &ExhaustedError{ProviderErrors: errs}
}

// MergeAll queries every provider concurrently and concatenates the results
// in priority order, deduplicated by address. Failures are collected the same
// way Search collects them.
func (a *Aggregator) MergeAll(ctx context.Context, f models.SearchFilters) (Result, error) {
	type answer struct {
		props []models.Property
		raw   []byte
		err   error
	}
	answers := make([]answer, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		g.Go(func() error {
			props, raw, err := a.query(gctx, p, f)
			answers[i] = answer{props: props, raw: raw, err: err}
			// only a cancelled parent aborts the siblings
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, p := range a.providers {
		name := p.Config().Name
		ans := answers[i]
		switch {
		case ans.err != nil:
			res.ProviderErrors = append(res.ProviderErrors, fmt.Sprintf("%s: %s", name, ans.err))
		case len(ans.props) == 0:
			res.ProviderErrors = append(res.ProviderErrors, fmt.Sprintf("%s: no properties returned", name))
		default:
			res.Properties = append(res.Properties, ans.props...)
			res.Hits = append(res.Hits, Hit{Filters: f, Provider: name, Raw: ans.raw, Count: len(ans.props)})
		}
	}
	if len(res.Properties) == 0 {
		res.Properties = []models.Property{}
		return res, &ExhaustedError{ProviderErrors: res.ProviderErrors}
	}
	res.Properties = rapidapi.DedupeByAddress(res.Properties)
	return res, nil
}

func (a *Aggregator) query(ctx context.Context, p rapidapi.Provider, f models.SearchFilters) ([]models.Property, []byte, error) {
	raw, err := a.fetch.Fetch(ctx, p, p.BuildRequest(f, a.pageSize))
	if err != nil {
		return nil, nil, err
	}
	return p.ParseResponse(raw, a.now()), raw, nil
}

// IsExhausted reports whether err means "nothing found" rather than a fault.
func IsExhausted(err error) bool { return errors.Is(err, ErrNoResults) }
