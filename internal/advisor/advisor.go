// Package advisor produces seller outreach letters and investment estimates
// for a property, using a chat model when one is configured.
package advisor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/models"
)

// ErrUnavailable wraps every failure of the remote model.
var ErrUnavailable = errors.New("advisor unavailable")

const RetryHint = "AI analysis failed, showing an estimate instead. Retry to regenerate."

type Advisor interface {
	GenerateOutreachMessage(ctx context.Context, p models.Property) (string, error)
	AnalyzeROI(ctx context.Context, p models.Property) (models.ROIBreakdown, error)
}

// Outreach is a generated message plus whether it came from the fallback.
type Outreach struct {
	Message   string `json:"message"`
	Fallback  bool   `json:"fallback"`
	RetryHint string `json:"retryHint,omitempty"`
}

// Fallback serves primary and, when it fails, the fallback's answer marked
// as such. It never returns an error unless the fallback itself does.
type Fallback struct {
	primary  Advisor
	fallback Advisor
	log      zerolog.Logger
}

func WithFallback(primary, fallback Advisor, log zerolog.Logger) *Fallback {
	return &Fallback{primary: primary, fallback: fallback, log: log.With().Str("component", "advisor").Logger()}
}

func (f *Fallback) Outreach(ctx context.Context, p models.Property) (Outreach, error) {
	if f.primary != nil {
		msg, err := f.primary.GenerateOutreachMessage(ctx, p)
		if err == nil {
			return Outreach{Message: msg}, nil
		}
		f.log.Warn().Err(err).Str("property", p.ID).Msg("outreach generation failed, using template")
	}
	msg, err := f.fallback.GenerateOutreachMessage(ctx, p)
	if err != nil {
		return Outreach{}, err
	}
	out := Outreach{Message: msg}
	if f.primary != nil {
		out.Fallback = true
		out.RetryHint = RetryHint
	}
	return out, nil
}

func (f *Fallback) GenerateOutreachMessage(ctx context.Context, p models.Property) (string, error) {
	o, err := f.Outreach(ctx, p)
	return o.Message, err
}

func (f *Fallback) AnalyzeROI(ctx context.Context, p models.Property) (models.ROIBreakdown, error) {
	if f.primary != nil {
		roi, err := f.primary.AnalyzeROI(ctx, p)
		if err == nil {
			return roi, nil
		}
		f.log.Warn().Err(err).Str("property", p.ID).Msg("roi analysis failed, using template")
	}
	roi, err := f.fallback.AnalyzeROI(ctx, p)
	if err != nil {
		return roi, err
	}
	if f.primary != nil {
		roi.Fallback = true
		roi.RetryHint = RetryHint
	}
	return roi, nil
}
