package indexer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/models"
)

func TestKey(t *testing.T) {
	if got := Key("redfin:1"); got != "leads:prop:redfin:1" {
		t.Fatalf("got %q, want leads:prop:redfin:1", got)
	}
}

func TestDisabledIndexer(t *testing.T) {
	i := &Indexer{Log: zerolog.Nop()}
	n, err := i.Index(context.Background(), []models.Property{{ID: "x"}})
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v, want 0, nil", n, err)
	}
	if _, ok, err := i.Lookup(context.Background(), "x"); ok || err != nil {
		t.Fatalf("got ok=%v err=%v, want miss", ok, err)
	}
	var nilIndexer *Indexer
	if _, ok, _ := nilIndexer.Lookup(context.Background(), "x"); ok {
		t.Fatal("nil indexer should miss")
	}
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	i := &Indexer{Log: zerolog.Nop()}
	ch := make(chan events.SearchCompleted, 1)
	ch <- events.SearchCompleted{Properties: []models.Property{{ID: "a"}}}
	close(ch)
	done := make(chan struct{})
	go func() {
		i.Run(context.Background(), ch)
		close(done)
	}()
	<-done
}
