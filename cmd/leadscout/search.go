package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/app"
	"github.com/yourorg/lead-scout/internal/export"
	"github.com/yourorg/lead-scout/internal/models"
)

type SearchCmd struct {
	Zip      []string `help:"Zip code(s), comma-separated or repeated." sep:","`
	City     string   `help:"City (requires --state)."`
	State    string   `help:"Two-letter state code."`
	MinPrice int      `name:"min-price" help:"Minimum list price."`
	MaxPrice int      `name:"max-price" help:"Maximum list price."`
	MaxDOM   int      `name:"max-dom" help:"Maximum days on market."`
	MinScore int      `name:"min-score" help:"Minimum motivation score."`
	Type     string   `help:"Property type: single-family, multi-family, condo." enum:",single-family,multi-family,condo" default:""`
	Page     int      `help:"Result page." default:"1"`
	All      bool     `help:"Query every provider and merge instead of stopping at the first hit."`
	Format   string   `help:"Output format: table, csv, tsv, json, md." enum:"table,csv,tsv,json,md" default:"table"`
	Output   string   `short:"o" help:"Write output to a file."`
}

func (s *SearchCmd) filters() models.SearchFilters {
	f := models.SearchFilters{
		ZipCodes:     s.Zip,
		City:         strings.TrimSpace(s.City),
		State:        strings.TrimSpace(s.State),
		PropertyType: models.PropertyType(s.Type),
		Page:         s.Page,
	}
	if s.MinPrice > 0 {
		f.MinPrice = models.Int(s.MinPrice)
	}
	if s.MaxPrice > 0 {
		f.MaxPrice = models.Int(s.MaxPrice)
	}
	if s.MaxDOM > 0 {
		f.MaxDaysOnMarket = models.Int(s.MaxDOM)
	}
	if s.MinScore > 0 {
		f.MinMotivationScore = models.Int(s.MinScore)
	}
	return f
}

func (s *SearchCmd) Run(ctx *Context) error {
	format, err := export.ParseFormat(s.Format)
	if err != nil {
		return err
	}
	f := s.filters()
	if !f.HasLocation() {
		return errors.New("--zip or --city with --state is required")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := app.Build(runCtx, ctx.Config, ctx.Logger)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Start(runCtx)

	strategy := aggregate.FirstHit
	if s.All {
		strategy = aggregate.Merge
	}
	res, err := a.Leads.Search(runCtx, f, strategy)
	if err != nil {
		if aggregate.IsExhausted(err) {
			for _, pe := range aggregate.ProviderErrors(err) {
				ctx.Warnf("  %s", pe)
			}
			return errors.New("no properties found, try another location")
		}
		return err
	}
	if res.Mock {
		ctx.Warnf("serving sample data: no listings API key configured")
	}
	for _, pe := range res.ProviderErrors {
		ctx.Logger.Debug().Str("error", pe).Msg("provider skipped")
	}

	out := ctx.Out
	color := ctx.ColorEnabled
	if s.Output != "" {
		file, err := os.Create(s.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
		color = false
	}
	if err := export.WriteProperties(out, res.Properties, format, export.WriteOptions{ColorEnabled: color}); err != nil {
		return err
	}
	if s.Output != "" {
		fmt.Fprintf(ctx.Err, "wrote %d properties to %s\n", len(res.Properties), s.Output)
	}
	return nil
}
