// Package agent contains the long-running bridge process: the scheduling
// loop, its wiring and the observability endpoint.
package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nutbridge-io/nutbridge/internal/nut"
	"github.com/nutbridge-io/nutbridge/pkg/log"
)

// Agent owns the scheduler and the metrics server for one bridge process.
type Agent struct {
	cfg    *Config
	host   string
	source nut.Source
}

// Run starts the poll loop and, when configured, the metrics HTTP server,
// and blocks until ctx is cancelled or one of them fails.
func (a *Agent) Run(ctx context.Context) error {
	log.Info("Starting nutbridge agent",
		"host", a.host,
		"source", a.cfg.Nut.Source,
		"target", a.cfg.Nut.Target,
		"receiver", a.cfg.Udp.Addr,
		"interval", a.cfg.Interval,
		"mqtt", a.cfg.Mqtt.Enabled(),
	)
	defer a.source.Close()

	tx, err := a.cfg.newTransmitter(ctx, a.host)
	if err != nil {
		return err
	}
	defer tx.Close()

	scheduler := NewScheduler(a.source, tx, a.host, a.cfg.Interval)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if a.cfg.Metrics.Enabled() {
		g.Go(func() error {
			return runMetricsServer(ctx, a.cfg.Metrics.Addr)
		})
	}

	err = g.Wait()
	log.Info("Agent shut down")
	return err
}
