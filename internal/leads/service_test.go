package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/events"
	"github.com/yourorg/lead-scout/internal/models"
)

type stubSource struct {
	res   aggregate.Result
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Search(context.Context, models.SearchFilters, aggregate.Strategy) (aggregate.Result, error) {
	s.calls++
	return s.res, s.err
}

type recorder struct{ events []events.SearchCompleted }

func (r *recorder) PublishSearchCompleted(_ context.Context, evt events.SearchCompleted) {
	r.events = append(r.events, evt)
}

var jc = models.SearchFilters{ZipCodes: []string{"07302"}}

func TestSearchRequiresLocation(t *testing.T) {
	svc := New(Options{Source: aggregate.Mock{}, Logger: zerolog.Nop()})
	_, err := svc.Search(context.Background(), models.SearchFilters{City: "Hoboken"}, aggregate.FirstHit)
	if !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("err = %v", err)
	}
}

func TestSearchRejectsBadZipsBeforeSource(t *testing.T) {
	for _, zips := range [][]string{{""}, {"   "}, {"abc"}, {"07302", "7302"}} {
		src := &stubSource{}
		svc := New(Options{Source: src, Logger: zerolog.Nop()})
		_, err := svc.Search(context.Background(), models.SearchFilters{ZipCodes: zips}, aggregate.FirstHit)
		if !errors.Is(err, ErrLocationRequired) {
			t.Errorf("zips %q: got err %v, want ErrLocationRequired", zips, err)
		}
		if src.calls != 0 {
			t.Errorf("zips %q: source called %d times, want 0", zips, src.calls)
		}
		if _, err := svc.Sweep(context.Background(), models.SearchFilters{ZipCodes: zips}); !errors.Is(err, ErrLocationRequired) {
			t.Errorf("sweep zips %q: got err %v, want ErrLocationRequired", zips, err)
		}
	}
}

func TestSearchTrimsZips(t *testing.T) {
	svc := New(Options{Source: aggregate.Mock{}, Logger: zerolog.Nop()})
	res, err := svc.Search(context.Background(), models.SearchFilters{ZipCodes: []string{" 07302 ", ""}}, aggregate.FirstHit)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Properties) == 0 {
		t.Fatalf("got no properties for a padded zip")
	}
}

func TestSearchScoresAndFilters(t *testing.T) {
	rec := &recorder{}
	svc := New(Options{Source: aggregate.Mock{}, Publisher: rec, Logger: zerolog.Nop()})

	res, err := svc.Search(context.Background(), jc, aggregate.FirstHit)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Properties) != 5 || !res.Mock || res.Provider != aggregate.SampleProvider {
		t.Fatalf("res = %+v", res)
	}
	for _, p := range res.Properties {
		if p.MotivationScore == nil {
			t.Fatalf("%s was not scored", p.ID)
		}
	}
	if len(rec.events) != 0 {
		t.Fatalf("sample data must not be published")
	}

	f := jc
	f.MinMotivationScore = models.Int(90)
	res, err = svc.Search(context.Background(), f, aggregate.FirstHit)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Properties {
		if *p.MotivationScore < 90 {
			t.Fatalf("filter let through %s with %d", p.ID, *p.MotivationScore)
		}
	}

	// a filter that removes everything is still a successful search
	f.MinMotivationScore = models.Int(101)
	res, err = svc.Search(context.Background(), f, aggregate.FirstHit)
	if err != nil || res.Properties == nil || len(res.Properties) != 0 {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
}

func TestSearchPublishesLiveResults(t *testing.T) {
	src := &stubSource{res: aggregate.Result{
		Properties: []models.Property{{ID: "zillow:1", Address: "1 A St", Price: 100000, DaysOnMarket: models.Int(95)}},
		Hits:       []aggregate.Hit{{Filters: jc, Provider: "Zillow", Raw: []byte(`{}`), Count: 1}},
	}}
	rec := &recorder{}
	svc := New(Options{Source: src, Publisher: rec, Logger: zerolog.Nop()})

	res, err := svc.Search(context.Background(), jc, aggregate.FirstHit)
	if err != nil {
		t.Fatal(err)
	}
	if res.Provider != "Zillow" || *res.Properties[0].MotivationScore != 70 {
		t.Fatalf("res = %+v", res)
	}
	if len(rec.events) != 1 || rec.events[0].Snapshots[0].Location != "07302" {
		t.Fatalf("events = %+v", rec.events)
	}
	if *rec.events[0].Properties[0].MotivationScore != 70 {
		t.Fatalf("published properties should carry scores")
	}
}

func TestSearchExhausted(t *testing.T) {
	errs := []string{"Redfin: no properties returned", "Zillow: API request failed with status 500"}
	src := &stubSource{
		res: aggregate.Result{Properties: []models.Property{}, ProviderErrors: errs},
		err: &aggregate.ExhaustedError{ProviderErrors: errs},
	}
	svc := New(Options{Source: src, Logger: zerolog.Nop()})
	res, err := svc.Search(context.Background(), jc, aggregate.FirstHit)
	if !aggregate.IsExhausted(err) {
		t.Fatalf("err = %v", err)
	}
	if len(res.ProviderErrors) != 2 || res.Properties == nil {
		t.Fatalf("res = %+v", res)
	}
}

func TestSweepCountsUnfiltered(t *testing.T) {
	svc := New(Options{Source: aggregate.Mock{}, Logger: zerolog.Nop()})
	n, err := svc.Sweep(context.Background(), models.SearchFilters{ZipCodes: []string{"07302"}, MinMotivationScore: models.Int(101)})
	if err != nil || n != 5 {
		t.Fatalf("Sweep = %d, %v", n, err)
	}
}

func TestCacheKeyDependsOnFiltersAndStrategy(t *testing.T) {
	a := cacheKey(jc, aggregate.FirstHit)
	if a != cacheKey(models.SearchFilters{ZipCodes: []string{"07302"}}, aggregate.FirstHit) {
		t.Fatalf("equal filters gave different keys")
	}
	if a == cacheKey(jc, aggregate.Merge) {
		t.Fatalf("strategy not part of the key")
	}
	f := jc
	f.Page = 2
	if a == cacheKey(f, aggregate.FirstHit) {
		t.Fatalf("page not part of the key")
	}
}
