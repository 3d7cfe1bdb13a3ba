package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nutbridge-io/nutbridge/internal/reading"
)

// fakeSource returns canned variables or a canned error.
type fakeSource struct {
	mu   sync.Mutex
	vars map[string]string
	err  error
}

func (f *fakeSource) Fetch(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vars, nil
}

func (f *fakeSource) Close() error { return nil }

func (f *fakeSource) set(vars map[string]string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vars, f.err = vars, err
}

// captureTransmitter records every reading handed to it.
type captureTransmitter struct {
	mu       sync.Mutex
	readings []*reading.UpsReading
}

func (c *captureTransmitter) Send(_ context.Context, r *reading.UpsReading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *r
	c.readings = append(c.readings, &copied)
	return nil
}

func (c *captureTransmitter) Close() error { return nil }

func (c *captureTransmitter) all() []*reading.UpsReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*reading.UpsReading(nil), c.readings...)
}

func healthyVars() map[string]string {
	return map[string]string{
		"ups.status":      "OL CHRG",
		"battery.charge":  "100",
		"battery.runtime": "1430",
	}
}

func TestRunCycleHealthy(t *testing.T) {
	tx := &captureTransmitter{}
	s := NewScheduler(&fakeSource{vars: healthyVars()}, tx, "nas01", time.Second)

	s.RunCycle(context.Background())

	got := tx.all()
	if len(got) != 1 {
		t.Fatalf("emitted %d readings, want 1", len(got))
	}
	r := got[0]
	if r.Alive != 1 || r.UpsStatus != reading.StatusOnline || r.UpsOnLine != 1 || r.BatteryCharging != 1 {
		t.Errorf("reading = alive=%d status=%d online=%d charging=%d", r.Alive, r.UpsStatus, r.UpsOnLine, r.BatteryCharging)
	}
	if r.RuntimeTotalMin != 24 || r.RuntimeMin != 23 || r.RuntimeSec != 50 {
		t.Errorf("runtime = (%d, %d, %d), want (24, 23, 50)", r.RuntimeTotalMin, r.RuntimeMin, r.RuntimeSec)
	}
	if s.State() != StateSleeping {
		t.Errorf("state = %q, want %q", s.State(), StateSleeping)
	}
}

func TestRunCycleDegradedOnAcquisitionFailure(t *testing.T) {
	tx := &captureTransmitter{}
	s := NewScheduler(&fakeSource{err: errors.New("upsc timed out")}, tx, "nas01", time.Second)

	s.RunCycle(context.Background())

	got := tx.all()
	if len(got) != 1 {
		t.Fatalf("emitted %d readings, want 1 (a degraded cycle still emits)", len(got))
	}
	r := got[0]
	if r.Alive != 0 || r.UpsStatus != reading.StatusUnknown || r.UpsOnLine != reading.TriUnknown {
		t.Errorf("degraded reading = alive=%d status=%d online=%d", r.Alive, r.UpsStatus, r.UpsOnLine)
	}
	if r.StatusRaw != "" {
		t.Errorf("StatusRaw = %q, want empty", r.StatusRaw)
	}
	if s.State() != StateSleeping {
		t.Errorf("state = %q, want %q", s.State(), StateSleeping)
	}
}

func TestRunCycleDegradedOnParseError(t *testing.T) {
	tx := &captureTransmitter{}
	src := &fakeSource{vars: map[string]string{"battery.charge": "50"}} // no ups.status
	s := NewScheduler(src, tx, "nas01", time.Second)

	s.RunCycle(context.Background())

	got := tx.all()
	if len(got) != 1 {
		t.Fatalf("emitted %d readings, want 1", len(got))
	}
	if got[0].Alive != 0 || got[0].UpsStatus != reading.StatusUnknown {
		t.Errorf("reading = alive=%d status=%d, want degraded", got[0].Alive, got[0].UpsStatus)
	}
}

func TestTimestampsMonotonic(t *testing.T) {
	tx := &captureTransmitter{}
	s := NewScheduler(&fakeSource{vars: healthyVars()}, tx, "nas01", time.Second)

	// A clock that steps backwards between cycles.
	times := []time.Time{
		time.Unix(1700000100, 0),
		time.Unix(1700000050, 0),
		time.Unix(1700000200, 0),
	}
	i := 0
	s.clock = func() time.Time {
		t := times[i%len(times)]
		i++
		return t
	}

	for range times {
		s.RunCycle(context.Background())
	}

	got := tx.all()
	for j := 1; j < len(got); j++ {
		if got[j].Timestamp < got[j-1].Timestamp {
			t.Errorf("timestamp regressed: %d after %d", got[j].Timestamp, got[j-1].Timestamp)
		}
	}
}

func TestRunEmitsDeadPacketOnShutdown(t *testing.T) {
	tx := &captureTransmitter{}
	s := NewScheduler(&fakeSource{vars: healthyVars()}, tx, "nas01", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Wait for the immediate first cycle, then shut down.
	waitFor(t, func() bool { return len(tx.all()) >= 1 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil on shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	got := tx.all()
	if len(got) < 2 {
		t.Fatalf("emitted %d readings, want at least first cycle plus dead packet", len(got))
	}
	last := got[len(got)-1]
	if last.Alive != 0 {
		t.Errorf("dead packet alive = %d, want 0", last.Alive)
	}
	// The dead packet carries the last known status from the healthy cycle.
	if last.UpsStatus != reading.StatusOnline || last.StatusRaw != "ol chrg" {
		t.Errorf("dead packet carries (%d, %q), want last known (1, %q)", last.UpsStatus, last.StatusRaw, "ol chrg")
	}
}

func TestRunCadence(t *testing.T) {
	tx := &captureTransmitter{}
	src := &fakeSource{vars: healthyVars()}
	s := NewScheduler(src, tx, "nas01", 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	<-done

	got := tx.all()
	// Initial immediate cycle + ~5 ticks + final dead packet; allow slack
	// for scheduling jitter.
	if len(got) < 4 || len(got) > 9 {
		t.Errorf("emitted %d readings over ~110ms at 20ms cadence", len(got))
	}

	for j := 1; j < len(got); j++ {
		if got[j].Timestamp < got[j-1].Timestamp {
			t.Errorf("timestamps out of order at %d", j)
		}
	}

	last := got[len(got)-1]
	if last.Alive != 0 {
		t.Errorf("final reading alive = %d, want dead packet", last.Alive)
	}
	for _, r := range got[:len(got)-1] {
		if r.Alive != 1 {
			t.Errorf("mid-run reading alive = %d, want 1", r.Alive)
		}
	}
}

func TestSchedulerRecoversAfterOutage(t *testing.T) {
	tx := &captureTransmitter{}
	src := &fakeSource{vars: healthyVars()}
	s := NewScheduler(src, tx, "nas01", time.Second)

	s.RunCycle(context.Background())
	src.set(nil, errors.New("connection refused"))
	s.RunCycle(context.Background())
	src.set(healthyVars(), nil)
	s.RunCycle(context.Background())

	got := tx.all()
	if len(got) != 3 {
		t.Fatalf("emitted %d readings, want 3", len(got))
	}
	wantAlive := []int{1, 0, 1}
	for i, r := range got {
		if r.Alive != wantAlive[i] {
			t.Errorf("cycle %d alive = %d, want %d", i, r.Alive, wantAlive[i])
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
