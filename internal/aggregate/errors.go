package aggregate

import (
	"errors"
	"strings"
)

var (
	// ErrNoResults is the user-facing "nothing found" condition.
	ErrNoResults = errors.New("no properties found from any provider")
	// ErrNotConfigured means the listings API key is missing in live mode.
	ErrNotConfigured = errors.New("listings API key is not configured")
)

// ExhaustedError carries one diagnostic per provider tried when every
// provider failed or came back empty.
type ExhaustedError struct {
	ProviderErrors []string
}

func (e *ExhaustedError) Error() string {
	if len(e.ProviderErrors) == 0 {
		return ErrNoResults.Error()
	}
	return ErrNoResults.Error() + ": " + strings.Join(e.ProviderErrors, "; ")
}

func (e *ExhaustedError) Unwrap() error { return ErrNoResults }

// ProviderErrors extracts the diagnostics from err, or nil.
func ProviderErrors(err error) []string {
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		return ex.ProviderErrors
	}
	return nil
}
