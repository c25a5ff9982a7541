package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/models"
)

// Snapshot is one raw provider payload that produced results.
type Snapshot struct {
	Provider string
	Location string
	Raw      []byte
}

// SearchCompleted is published after every live search that found something.
type SearchCompleted struct {
	At         time.Time
	Filters    models.SearchFilters
	Snapshots  []Snapshot
	Properties []models.Property
}

type Publisher interface {
	PublishSearchCompleted(ctx context.Context, evt SearchCompleted)
}

// Bus fans each event out to every subscriber. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]chan SearchCompleted
	buffer int
	closed bool
	log    zerolog.Logger
}

func NewBus(buffer int, log zerolog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		subs:   make(map[string]chan SearchCompleted),
		buffer: buffer,
		log:    log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers a named consumer. Subscribing twice under one name
// returns the same channel.
func (b *Bus) Subscribe(name string) <-chan SearchCompleted {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[name]; ok {
		return ch
	}
	ch := make(chan SearchCompleted, b.buffer)
	if b.closed {
		close(ch)
	}
	b.subs[name] = ch
	return ch
}

func (b *Bus) PublishSearchCompleted(_ context.Context, evt SearchCompleted) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for name, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.log.Warn().Str("subscriber", name).Msg("subscriber saturated, event dropped")
		}
	}
}

// Close ends every subscription; consumers see their channel closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
}
