package hydrator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/store"
)

// Hydrator persists search results published on the event bus.
type Hydrator struct {
	Store *store.Store
	Log   zerolog.Logger
}

func (h *Hydrator) Enabled() bool { return h != nil && h.Store != nil }

// Run consumes events until ctx is done or the channel closes. Each event is
// written with its own timeout so a slow database cannot stall the bus.
func (h *Hydrator) Run(ctx context.Context, sub <-chan events.SearchCompleted) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := h.Write(wctx, evt); err != nil {
				h.Log.Error().Err(err).Str("location", evt.Filters.Location()).Msg("hydrator: write failed")
			}
			cancel()
		}
	}
}

// Write upserts the event's properties and stores each raw payload.
func (h *Hydrator) Write(ctx context.Context, evt events.SearchCompleted) error {
	if !h.Enabled() {
		return nil
	}
	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	stats, err := h.Store.UpsertProperties(ctx, evt.Properties, at)
	if err != nil {
		return err
	}
	var joined error
	stored := 0
	for _, snap := range evt.Snapshots {
		if len(snap.Raw) == 0 {
			continue
		}
		ok, err := h.Store.WriteSnapshot(ctx, snap.Provider, snap.Location, snap.Raw, at)
		if err != nil {
			joined = errors.Join(joined, err)
			continue
		}
		if ok {
			stored++
		}
	}
	h.Log.Info().
		Int("written", stats.Written).
		Int("price_changes", stats.PriceChanges).
		Int("snapshots", stored).
		Str("location", evt.Filters.Location()).
		Msg("hydrator: search persisted")
	return joined
}
