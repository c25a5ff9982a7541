// Package indexer keeps the latest copy of every seen property in Redis so
// it can be looked up by id without another provider call.
package indexer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/redisx"
)

func Key(id string) string { return "leads:prop:" + id }

type Indexer struct {
	Redis *redisx.Client
	TTL   time.Duration
	Log   zerolog.Logger
}

// Run consumes events until ctx is done or the channel closes.
func (i *Indexer) Run(ctx context.Context, sub <-chan events.SearchCompleted) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub:
			if !ok {
				return
			}
			n, err := i.Index(ctx, evt.Properties)
			if err != nil {
				i.Log.Warn().Err(err).Int("indexed", n).Msg("indexer: write failed")
				continue
			}
			i.Log.Debug().Int("indexed", n).Msg("indexer: search indexed")
		}
	}
}

// Index writes each property under its id and returns how many were stored
// before the first error.
func (i *Indexer) Index(ctx context.Context, props []models.Property) (int, error) {
	if i.Redis == nil {
		return 0, nil
	}
	for n, p := range props {
		if p.ID == "" {
			continue
		}
		if err := i.Redis.SetJSON(ctx, Key(p.ID), p, i.TTL); err != nil {
			return n, err
		}
	}
	return len(props), nil
}

// Lookup returns the indexed property for id.
func (i *Indexer) Lookup(ctx context.Context, id string) (models.Property, bool, error) {
	var p models.Property
	if i == nil || i.Redis == nil {
		return p, false, nil
	}
	ok, err := i.Redis.GetJSON(ctx, Key(id), &p)
	return p, ok, err
}
