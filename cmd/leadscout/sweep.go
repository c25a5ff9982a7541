package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/lead-scout/internal/app"
	"github.com/yourorg/lead-scout/internal/models"
)

type SweepCmd struct {
	Zips     []string      `help:"Zip codes to refresh (default SWEEP_ZIPS)." sep:","`
	Types    []string      `help:"Property types to sweep separately." sep:","`
	Schedule string        `help:"Cron expression or descriptor (default SWEEP_SCHEDULE)."`
	Pause    time.Duration `help:"Pause between provider requests (default SWEEP_PAUSE)."`
	Once     bool          `help:"Run a single pass and exit."`
}

func (s *SweepCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if len(s.Zips) > 0 {
		cfg.SweepZips = s.Zips
	}
	if s.Schedule != "" {
		cfg.SweepSchedule = s.Schedule
	}
	if s.Pause > 0 {
		cfg.SweepPause = s.Pause
	}
	if len(cfg.SweepZips) == 0 {
		return errors.New("no zip codes: pass --zips or set SWEEP_ZIPS")
	}
	for _, z := range cfg.SweepZips {
		if !models.IsZipCode(z) {
			return errors.New("invalid zip code " + z)
		}
	}
	var types []models.PropertyType
	for _, raw := range s.Types {
		pt := models.ParsePropertyType(raw)
		if pt == "" {
			return errors.New("unknown property type " + raw)
		}
		types = append(types, pt)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := app.Build(runCtx, cfg, ctx.Logger)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Store == nil && a.Redis == nil {
		ctx.Warnf("no store or redis configured: sweep results will not be kept")
	}
	a.Start(runCtx)
	a.Sweep.Config.PropertyTypes = types

	if s.Once {
		return a.Sweep.RunOnce(runCtx)
	}
	return a.Sweep.Run(runCtx)
}
