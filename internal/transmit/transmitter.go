// Package transmit sends finalized UPS readings to the configured
// receivers. All transmitters are fire-and-forget: a failed send is
// reported to the caller for logging and the next cycle proceeds normally.
package transmit

import (
	"context"
	"errors"

	"github.com/nutbridge-io/nutbridge/internal/reading"
)

// Transmitter delivers one reading per call.
type Transmitter interface {
	// Send serializes the reading and hands it to the transport. It never
	// retries and never buffers across cycles.
	Send(ctx context.Context, r *reading.UpsReading) error

	// Close releases transport resources.
	Close() error
}

// Multi fans a reading out to several transmitters. Every transmitter is
// attempted; errors are joined so one failing transport cannot starve the
// others.
type Multi struct {
	transmitters []Transmitter
}

var _ Transmitter = (*Multi)(nil)

// NewMulti wraps the given transmitters. A Multi over a single transmitter
// behaves exactly like that transmitter.
func NewMulti(transmitters ...Transmitter) *Multi {
	return &Multi{transmitters: transmitters}
}

func (m *Multi) Send(ctx context.Context, r *reading.UpsReading) error {
	var errs []error
	for _, t := range m.transmitters {
		if err := t.Send(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, t := range m.transmitters {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
