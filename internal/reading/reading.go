// Package reading defines the typed UPS reading emitted by the bridge and
// the normalization of raw NUT variables into it.
package reading

import (
	"encoding/json"
	"time"
)

// Source identifies the feed kind in every emitted payload.
const Source = "ups"

// Normalized severity codes, ordered by increasing urgency.
// 9 means the raw status carried no recognized token.
const (
	StatusOnline         = 1
	StatusOnBattery      = 2
	StatusLowBattery     = 3
	StatusReplaceBattery = 4
	StatusOverload       = 5
	StatusForcedShutdown = 6
	StatusUnknown        = 9
)

// Tri-state values used by UpsOnLine and BatteryCharging.
const (
	TriUnknown = -1
	TriFalse   = 0
	TriTrue    = 1
)

// UpsReading is the flat record sent as one UDP datagram per cycle.
// It is constructed fresh every cycle and never mutated afterwards.
// Optional numeric fields are pointers so that an unparsable source value
// is omitted from the wire instead of showing up as a fake zero.
type UpsReading struct {
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
	Host      string `json:"host"`
	Alive     int    `json:"alive"`
	UpsStatus int    `json:"ups_status"`
	UpsOnLine int    `json:"ups_on_line"`
	StatusRaw string `json:"status_raw"`

	BatteryPercent  *float64 `json:"battery_percent,omitempty"`
	RuntimeTotalSec int      `json:"runtime_total_sec"`
	RuntimeTotalMin int      `json:"runtime_total_min"`
	RuntimeMin      int      `json:"runtime_min"`
	RuntimeSec      int      `json:"runtime_sec"`
	LoadPercent     *float64 `json:"load_percent,omitempty"`
	InputVoltage    *float64 `json:"input_voltage,omitempty"`
	BatteryCharging int      `json:"battery_charging"`

	// Enrichment fields, emitted only when the source provides them.
	BatteryVoltage        *float64 `json:"battery_voltage,omitempty"`
	BatteryVoltageNominal *float64 `json:"battery_voltage_nominal,omitempty"`
	InputVoltageNominal   *float64 `json:"input_voltage_nominal,omitempty"`
	RealpowerNominal      *float64 `json:"realpower_nominal,omitempty"`
	DeviceModel           string   `json:"device_model,omitempty"`
	DeviceSerial          string   `json:"device_serial,omitempty"`
	LastTransferReason    string   `json:"last_transfer_reason,omitempty"`
	UpsTestResult         string   `json:"ups_test_result,omitempty"`
	DriverVersion         string   `json:"driver_version,omitempty"`
}

// Degraded returns the reading emitted when acquisition or normalization
// failed this cycle. The receiver detects loss of contact via alive=0
// rather than silence.
func Degraded(now time.Time, host string) *UpsReading {
	return &UpsReading{
		Source:          Source,
		Timestamp:       now.Unix(),
		Host:            host,
		Alive:           0,
		UpsStatus:       StatusUnknown,
		UpsOnLine:       TriUnknown,
		StatusRaw:       "",
		BatteryCharging: TriUnknown,
	}
}

// Encode serializes the reading to the flat JSON wire form.
func (r *UpsReading) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Decompose splits a total runtime in seconds into the minute/second
// components carried on the wire. Negative input is clamped to zero.
//
//	totalMin = ceil(totalSec/60), min = floor(totalSec/60), sec = totalSec mod 60
func Decompose(totalSec int) (totalMin, min, sec int) {
	if totalSec < 0 {
		totalSec = 0
	}
	return (totalSec + 59) / 60, totalSec / 60, totalSec % 60
}
