// Package metrics exposes the bridge's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nutbridge-io/nutbridge/internal/reading"
)

const (
	// CycleResultOK labels cycles that produced a live reading.
	CycleResultOK = "ok"
	// CycleResultDegraded labels cycles that fell back to a degraded reading.
	CycleResultDegraded = "degraded"
)

var (
	// CyclesTotal counts poll cycles by outcome.
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutbridge_cycles_total",
			Help: "Total number of poll cycles, labelled by outcome (ok/degraded).",
		},
		[]string{"result"},
	)

	// TransmitErrorsTotal counts failed sends. The loop continues regardless.
	TransmitErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nutbridge_transmit_errors_total",
			Help: "Total number of failed reading transmissions.",
		},
	)

	// Alive mirrors the alive field of the last emitted reading.
	Alive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nutbridge_ups_alive",
			Help: "Whether the last cycle reached the UPS (1) or not (0).",
		},
	)

	// UpsStatus mirrors the normalized severity of the last reading.
	UpsStatus = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nutbridge_ups_status",
			Help: "Normalized UPS severity code of the last reading (1=online ... 6=forced shutdown, 9=unknown).",
		},
	)

	// BatteryPercent is the last known battery charge, if reported.
	BatteryPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nutbridge_ups_battery_percent",
			Help: "Battery charge percentage from the last live reading.",
		},
	)

	// RuntimeSeconds is the last known remaining runtime, if reported.
	RuntimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nutbridge_ups_runtime_seconds",
			Help: "Estimated remaining battery runtime in seconds from the last live reading.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		TransmitErrorsTotal,
		Alive,
		UpsStatus,
		BatteryPercent,
		RuntimeSeconds,
	)
}

// ObserveReading updates the state gauges from an emitted reading.
func ObserveReading(r *reading.UpsReading) {
	Alive.Set(float64(r.Alive))
	UpsStatus.Set(float64(r.UpsStatus))
	if r.BatteryPercent != nil {
		BatteryPercent.Set(*r.BatteryPercent)
	}
	if r.Alive == 1 {
		RuntimeSeconds.Set(float64(r.RuntimeTotalSec))
	}
}
