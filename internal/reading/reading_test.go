package reading

import (
	"bytes"
	"testing"
	"time"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name      string
		totalSec  int
		wantTotal int
		wantMin   int
		wantSec   int
	}{
		{"zero", 0, 0, 0, 0},
		{"under a minute", 50, 1, 0, 50},
		{"exact minute", 60, 1, 1, 0},
		{"exact hours", 3600, 60, 60, 0},
		{"typical runtime", 1430, 24, 23, 50},
		{"one over", 61, 2, 1, 1},
		{"negative clamped", -5, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totalMin, min, sec := Decompose(tt.totalSec)
			if totalMin != tt.wantTotal || min != tt.wantMin || sec != tt.wantSec {
				t.Errorf("Decompose(%d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.totalSec, totalMin, min, sec, tt.wantTotal, tt.wantMin, tt.wantSec)
			}
		})
	}
}

// The decomposition must reconstruct the input and never round totalMin down
// below min.
func TestDecomposeInvariants(t *testing.T) {
	for s := 0; s <= 7200; s++ {
		totalMin, min, sec := Decompose(s)
		if min*60+sec != s {
			t.Fatalf("Decompose(%d): min*60+sec = %d", s, min*60+sec)
		}
		if sec < 0 || sec > 59 {
			t.Fatalf("Decompose(%d): sec = %d out of range", s, sec)
		}
		if totalMin < min {
			t.Fatalf("Decompose(%d): totalMin %d < min %d", s, totalMin, min)
		}
		if (totalMin == min) != (sec == 0) {
			t.Fatalf("Decompose(%d): totalMin %d, min %d, sec %d", s, totalMin, min, sec)
		}
	}
}

func TestDegraded(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := Degraded(now, "nas01")

	if r.Alive != 0 {
		t.Errorf("Alive = %d, want 0", r.Alive)
	}
	if r.UpsStatus != StatusUnknown {
		t.Errorf("UpsStatus = %d, want %d", r.UpsStatus, StatusUnknown)
	}
	if r.UpsOnLine != TriUnknown || r.BatteryCharging != TriUnknown {
		t.Errorf("tri-states = (%d, %d), want (-1, -1)", r.UpsOnLine, r.BatteryCharging)
	}
	if r.StatusRaw != "" {
		t.Errorf("StatusRaw = %q, want empty", r.StatusRaw)
	}
	if r.BatteryPercent != nil || r.LoadPercent != nil || r.InputVoltage != nil {
		t.Error("optional numeric fields must be absent on a degraded reading")
	}
	if r.Timestamp != now.Unix() {
		t.Errorf("Timestamp = %d, want %d", r.Timestamp, now.Unix())
	}
	if r.Source != Source || r.Host != "nas01" {
		t.Errorf("identity fields = (%q, %q)", r.Source, r.Host)
	}
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	r := Degraded(time.Unix(1700000000, 0), "nas01")
	data, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, absent := range []string{"battery_percent", "load_percent", "input_voltage", "device_model"} {
		if containsKey(data, absent) {
			t.Errorf("degraded payload must not carry %q: %s", absent, data)
		}
	}
	for _, present := range []string{"source", "alive", "ups_status", "status_raw", "runtime_total_sec", "battery_charging"} {
		if !containsKey(data, present) {
			t.Errorf("payload missing %q: %s", present, data)
		}
	}
}

func containsKey(payload []byte, key string) bool {
	return bytes.Contains(payload, []byte(`"`+key+`"`))
}
