package rapidapi

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

// Config describes how to reach one provider.
type Config struct {
	// Name is the human label used in providerErrors and Property.Provider.
	Name string `json:"name" yaml:"name"`
	// Slug prefixes property ids ("redfin:123").
	Slug       string `json:"slug" yaml:"slug"`
	Host       string `json:"host" yaml:"host"`
	BaseURL    string `json:"base_url" yaml:"base_url"`
	KeyHeader  string `json:"key_header" yaml:"key_header"`
	HostHeader string `json:"host_header" yaml:"host_header"`
}

// Request is the outbound call a provider wants made for a filter set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

// URL resolves the request against the provider's base URL.
func (r Request) URL(cfg Config) string {
	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.Host
	}
	u := strings.TrimRight(base, "/") + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Provider turns search filters into a request and a raw body into canonical
// properties. ParseResponse never fails: anything it cannot read becomes an
// empty slice or a zero/nil field.
type Provider interface {
	Config() Config
	BuildRequest(f models.SearchFilters, pageSize int) Request
	ParseResponse(raw []byte, now time.Time) []models.Property
}

// DefaultOrder is the fallback priority used when none is configured.
var DefaultOrder = []string{"redfin", "realtor", "usrealestate", "zillow", "streeteasy", "loopnet"}

var defaults = map[string]Config{
	"redfin":       {Name: "Redfin", Slug: "redfin", Host: "redfin-com-data.p.rapidapi.com"},
	"realtor":      {Name: "Realtor.com", Slug: "realtor", Host: "realtor-com4.p.rapidapi.com"},
	"usrealestate": {Name: "US Real Estate", Slug: "usrealestate", Host: "us-real-estate.p.rapidapi.com"},
	"zillow":       {Name: "Zillow", Slug: "zillow", Host: "zillow-com1.p.rapidapi.com"},
	"streeteasy":   {Name: "StreetEasy", Slug: "streeteasy", Host: "streeteasy-api.p.rapidapi.com"},
	"loopnet":      {Name: "LoopNet", Slug: "loopnet", Host: "loopnet-api.p.rapidapi.com"},
}

// DefaultConfig returns the built-in settings for slug.
func DefaultConfig(slug string) (Config, bool) {
	c, ok := defaults[slug]
	if !ok {
		return Config{}, false
	}
	c.KeyHeader = "X-RapidAPI-Key"
	c.HostHeader = "X-RapidAPI-Host"
	return c, true
}

// New builds the provider registered under slug, with non-empty override
// fields replacing the defaults.
func New(slug string, override Config) (Provider, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	cfg, ok := DefaultConfig(slug)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", slug)
	}
	cfg = merge(cfg, override)
	b := base{cfg: cfg}
	switch slug {
	case "redfin":
		return redfin{b}, nil
	case "realtor":
		return realtor{b}, nil
	case "usrealestate":
		return usRealEstate{b}, nil
	case "zillow":
		return zillow{b}, nil
	case "streeteasy":
		return streetEasy{b}, nil
	default:
		return loopNet{b}, nil
	}
}

// Build constructs providers in the given priority order. An empty list means
// DefaultOrder.
func Build(order []string, overrides map[string]Config) ([]Provider, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	out := make([]Provider, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, slug := range order {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		p, err := New(slug, overrides[slug])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func merge(c, o Config) Config {
	if o.Name != "" {
		c.Name = o.Name
	}
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.KeyHeader != "" {
		c.KeyHeader = o.KeyHeader
	}
	if o.HostHeader != "" {
		c.HostHeader = o.HostHeader
	}
	return c
}

type base struct{ cfg Config }

func (b base) Config() Config { return b.cfg }

func offset(f models.SearchFilters, pageSize int) int {
	return (f.PageOrFirst() - 1) * pageSize
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, fmt.Sprint(*v))
	}
}
