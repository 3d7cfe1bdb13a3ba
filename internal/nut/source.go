// Package nut acquires raw UPS status blocks from Network UPS Tools, either
// live through the upsc utility or from a static sample file.
package nut

import (
	"context"
	"fmt"

	"github.com/nutbridge-io/nutbridge/pkg/options"
)

// Source abstracts where the raw key/value status block comes from, so the
// scheduler and tests can swap the live query for a canned one.
type Source interface {
	// Fetch returns the current UPS variables as a name/value map. It must
	// honor ctx and return within the provider's configured timeout.
	Fetch(ctx context.Context) (map[string]string, error)

	// Close releases provider resources.
	Close() error
}

// NewSource builds the provider selected by the options.
func NewSource(opts *options.NutOptions) (Source, error) {
	switch opts.Source {
	case options.SourceUpsc:
		return NewUpscSource(opts.Target, opts.Timeout), nil
	case options.SourceSample:
		return NewSampleSource(opts.SampleFile)
	default:
		return nil, fmt.Errorf("unknown nut source %q", opts.Source)
	}
}
