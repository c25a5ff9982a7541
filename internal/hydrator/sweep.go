package hydrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/logger"
	"github.com/yourorg/lead-scout/internal/models"
)

// Searcher runs an uncached live search whose results reach the event bus.
type Searcher interface {
	Sweep(ctx context.Context, f models.SearchFilters) (int, error)
}

type SweepConfig struct {
	Zips          []string
	PropertyTypes []models.PropertyType
	// Schedule uses cron syntax or descriptors such as "@every 6h".
	Schedule             string
	PauseBetweenRequests time.Duration
	RequestTimeout       time.Duration
}

// SweepJob refreshes a fixed set of zip codes on a schedule.
type SweepJob struct {
	Search Searcher
	Log    zerolog.Logger
	Config SweepConfig
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates a schedule expression.
func ParseSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("empty schedule")
	}
	sched, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return sched, nil
}

func (j *SweepJob) validate() error {
	if j == nil {
		return errors.New("nil sweep job")
	}
	if j.Search == nil {
		return errors.New("sweep job missing searcher")
	}
	if len(j.Config.Zips) == 0 {
		return errors.New("sweep job requires at least one zip")
	}
	return nil
}

// Run does one pass immediately, then one per scheduled tick until ctx ends.
// Overlapping ticks are skipped.
func (j *SweepJob) Run(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	sched, err := ParseSchedule(j.Config.Schedule)
	if err != nil {
		return err
	}
	clog := logger.Cron(j.Log)
	c := cron.New(cron.WithParser(scheduleParser), cron.WithLogger(clog), cron.WithChain(cron.SkipIfStillRunning(clog)))
	c.Schedule(sched, cron.FuncJob(func() {
		if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			j.Log.Error().Err(err).Msg("sweep: iteration failed")
		}
	}))

	j.Log.Info().Str("schedule", j.Config.Schedule).Int("zips", len(j.Config.Zips)).Msg("sweep: starting")
	if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		j.Log.Error().Err(err).Msg("sweep: initial run failed")
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	j.Log.Info().Msg("sweep: stopped")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// RunOnce sweeps every configured zip and property type.
func (j *SweepJob) RunOnce(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	var joined error
	first := true
	for _, raw := range j.Config.Zips {
		zip := strings.TrimSpace(raw)
		if zip == "" {
			continue
		}
		for _, pt := range j.propertyTypes() {
			if !first {
				if err := j.pause(ctx); err != nil {
					return err
				}
			}
			first = false
			if err := j.sweep(ctx, zip, pt); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				joined = errors.Join(joined, err)
			}
		}
	}
	return joined
}

// RunZip sweeps a single zip outside the schedule.
func (j *SweepJob) RunZip(ctx context.Context, zip string) error {
	if j == nil || j.Search == nil {
		return errors.New("sweep job missing searcher")
	}
	var joined error
	for _, pt := range j.propertyTypes() {
		if err := j.sweep(ctx, zip, pt); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

func (j *SweepJob) sweep(ctx context.Context, zip string, pt models.PropertyType) error {
	timeout := j.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	f := models.SearchFilters{ZipCodes: []string{zip}, PropertyType: pt}
	n, err := j.Search.Sweep(rctx, f)
	switch {
	case aggregate.IsExhausted(err):
		// nothing listed is not a failure of the sweep
		j.Log.Info().Str("zip", zip).Str("type", string(pt)).Msg("sweep: no listings")
		return nil
	case err != nil:
		return fmt.Errorf("sweep %s: %w", zip, err)
	}
	j.Log.Info().Str("zip", zip).Str("type", string(pt)).Int("count", n).Msg("sweep: zip refreshed")
	return nil
}

func (j *SweepJob) propertyTypes() []models.PropertyType {
	if len(j.Config.PropertyTypes) == 0 {
		return []models.PropertyType{""}
	}
	return j.Config.PropertyTypes
}

func (j *SweepJob) pause(ctx context.Context) error {
	if j.Config.PauseBetweenRequests <= 0 {
		return nil
	}
	t := time.NewTimer(j.Config.PauseBetweenRequests)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
