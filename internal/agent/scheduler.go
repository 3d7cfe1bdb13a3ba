package agent

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"github.com/nutbridge-io/nutbridge/internal/nut"
	"github.com/nutbridge-io/nutbridge/internal/pkg/metrics"
	"github.com/nutbridge-io/nutbridge/internal/reading"
	"github.com/nutbridge-io/nutbridge/internal/transmit"
	"github.com/nutbridge-io/nutbridge/pkg/log"
)

// Cycle states. Every poll cycle walks
// acquiring -> normalizing -> transmitting -> sleeping; the degraded path
// jumps straight from acquiring or normalizing to transmitting so that a
// packet is emitted no matter what.
const (
	StateIdle         = "idle"
	StateAcquiring    = "acquiring"
	StateNormalizing  = "normalizing"
	StateTransmitting = "transmitting"
	StateSleeping     = "sleeping"
)

// Cycle events.
const (
	EventAcquire   = "acquire"
	EventNormalize = "normalize"
	EventDegrade   = "degrade"
	EventTransmit  = "transmit"
	EventSleep     = "sleep"
)

// Scheduler drives the poll-normalize-transmit loop at a fixed cadence.
// Cycles are strictly sequential; the interval does not adapt to UPS state
// so receivers can treat the feed as a heartbeat.
type Scheduler struct {
	source   nut.Source
	tx       transmit.Transmitter
	host     string
	interval time.Duration

	// clock is swappable for tests.
	clock func() time.Time

	cycle *fsm.FSM

	// lastTimestamp keeps emitted timestamps monotonic across cycles even
	// if the wall clock steps backwards.
	lastTimestamp int64

	// Last known status, carried by the final dead packet on shutdown.
	lastStatus    int
	lastStatusRaw string
}

// NewScheduler wires the loop around a source and a transmitter.
func NewScheduler(source nut.Source, tx transmit.Transmitter, host string, interval time.Duration) *Scheduler {
	s := &Scheduler{
		source:     source,
		tx:         tx,
		host:       host,
		interval:   interval,
		clock:      time.Now,
		lastStatus: reading.StatusUnknown,
	}

	s.cycle = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventAcquire, Src: []string{StateIdle, StateSleeping}, Dst: StateAcquiring},
			{Name: EventNormalize, Src: []string{StateAcquiring}, Dst: StateNormalizing},
			{Name: EventDegrade, Src: []string{StateAcquiring, StateNormalizing}, Dst: StateTransmitting},
			{Name: EventTransmit, Src: []string{StateNormalizing}, Dst: StateTransmitting},
			{Name: EventSleep, Src: []string{StateTransmitting}, Dst: StateSleeping},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("Cycle transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)

	return s
}

// State returns the current cycle state.
func (s *Scheduler) State() string {
	return s.cycle.Current()
}

// Run executes cycles until ctx is cancelled. The first cycle starts
// immediately; each subsequent one on the ticker. On shutdown one final
// dead packet (alive=0) is emitted so receivers see an explicit goodbye
// instead of silence.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info("Scheduler started", "interval", s.interval, "host", s.host)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunCycle(ctx)

	for {
		select {
		case <-ticker.C:
			s.RunCycle(ctx)
		case <-ctx.Done():
			s.sendDeadPacket()
			log.Info("Scheduler stopped")
			return nil
		}
	}
}

// RunCycle performs one full acquire-normalize-transmit pass. It never
// fails: every error path collapses into a degraded reading which is still
// transmitted.
func (s *Scheduler) RunCycle(ctx context.Context) {
	if err := s.cycle.Event(ctx, EventAcquire); err != nil {
		log.Error(err, "Cycle state machine rejected acquire", "state", s.cycle.Current())
		return
	}

	r := s.produceReading(ctx)
	s.finalize(r)

	if err := s.tx.Send(ctx, r); err != nil {
		metrics.TransmitErrorsTotal.Inc()
		log.Error(err, "Transmit failed, continuing", "alive", r.Alive)
	}
	metrics.ObserveReading(r)

	_ = s.cycle.Event(ctx, EventSleep)
}

// produceReading acquires and normalizes, degrading on any failure.
// Exactly one alive determination happens here per cycle.
func (s *Scheduler) produceReading(ctx context.Context) *reading.UpsReading {
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		log.Warn("Acquisition failed, emitting degraded reading", "error", err.Error())
		_ = s.cycle.Event(ctx, EventDegrade)
		metrics.CyclesTotal.WithLabelValues(metrics.CycleResultDegraded).Inc()
		return reading.Degraded(s.clock(), s.host)
	}

	_ = s.cycle.Event(ctx, EventNormalize)

	r, err := reading.Normalize(raw, s.clock(), s.host)
	if err != nil {
		log.Warn("Normalization failed, emitting degraded reading", "error", err.Error())
		_ = s.cycle.Event(ctx, EventDegrade)
		metrics.CyclesTotal.WithLabelValues(metrics.CycleResultDegraded).Inc()
		return reading.Degraded(s.clock(), s.host)
	}

	_ = s.cycle.Event(ctx, EventTransmit)
	metrics.CyclesTotal.WithLabelValues(metrics.CycleResultOK).Inc()
	return r
}

// finalize pins the timestamp to be non-decreasing and records the last
// known status for the shutdown dead packet.
func (s *Scheduler) finalize(r *reading.UpsReading) {
	if r.Timestamp < s.lastTimestamp {
		r.Timestamp = s.lastTimestamp
	}
	s.lastTimestamp = r.Timestamp

	if r.Alive == 1 {
		s.lastStatus = r.UpsStatus
		s.lastStatusRaw = r.StatusRaw
	}
}

// sendDeadPacket emits the final alive=0 reading carrying the last known
// status. The loop context is already cancelled at this point, so the send
// gets its own short deadline.
func (s *Scheduler) sendDeadPacket() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r := reading.Degraded(s.clock(), s.host)
	r.UpsStatus = s.lastStatus
	r.StatusRaw = s.lastStatusRaw
	s.finalize(r)

	if err := s.tx.Send(ctx, r); err != nil {
		log.Error(err, "Failed to send final dead packet")
		return
	}
	log.Info("Sent final dead packet", "upsStatus", r.UpsStatus)
}
