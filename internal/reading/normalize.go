package reading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMissingStatus is returned when the raw block carries no usable
// ups.status field. Callers emit a degraded reading instead of failing.
var ErrMissingStatus = errors.New("raw block is missing ups.status")

// NUT variable names consumed by the normalizer.
const (
	keyStatus                = "ups.status"
	keyBatteryCharge         = "battery.charge"
	keyBatteryRuntime        = "battery.runtime"
	keyLoad                  = "ups.load"
	keyInputVoltage          = "input.voltage"
	keyBatteryVoltage        = "battery.voltage"
	keyBatteryVoltageNominal = "battery.voltage.nominal"
	keyInputVoltageNominal   = "input.voltage.nominal"
	keyRealpowerNominal      = "ups.realpower.nominal"
	keyDeviceModel           = "device.model"
	keyDeviceSerial          = "device.serial"
	keyTransferReason        = "input.transfer.reason"
	keyTestResult            = "ups.test.result"
	keyDriverVersion         = "driver.version"
)

// severityByToken lists the recognized status tokens from highest to lowest
// severity. Several tokens can co-occur (e.g. "ol chrg"); the highest match
// wins.
var severityByToken = []struct {
	token    string
	severity int
}{
	{"fsd", StatusForcedShutdown},
	{"ovr", StatusOverload},
	{"rb", StatusReplaceBattery},
	{"lb", StatusLowBattery},
	{"ob", StatusOnBattery},
	{"ol", StatusOnline},
}

// Normalize turns a raw NUT variable map into a fully populated UpsReading
// with alive=1. It fails only when the status field itself is missing or
// empty; every numeric field is parsed defensively and simply omitted when
// unusable.
func Normalize(raw map[string]string, now time.Time, host string) (*UpsReading, error) {
	rawStatus := strings.TrimSpace(raw[keyStatus])
	if rawStatus == "" {
		return nil, fmt.Errorf("normalize %d variables: %w", len(raw), ErrMissingStatus)
	}

	statusRaw := strings.ToLower(rawStatus)
	tokens := splitTokens(statusRaw)

	r := &UpsReading{
		Source:          Source,
		Timestamp:       now.Unix(),
		Host:            host,
		Alive:           1,
		UpsStatus:       classify(tokens),
		UpsOnLine:       triState(tokens, "ol", "ob"),
		StatusRaw:       statusRaw,
		BatteryCharging: triState(tokens, "chrg", "dischrg"),
	}

	r.BatteryPercent = parseFloat(raw[keyBatteryCharge])
	r.LoadPercent = parseFloat(raw[keyLoad])
	r.InputVoltage = parseFloat(raw[keyInputVoltage])

	if sec := parseInt(raw[keyBatteryRuntime]); sec != nil {
		r.RuntimeTotalSec = *sec
		r.RuntimeTotalMin, r.RuntimeMin, r.RuntimeSec = Decompose(*sec)
	}

	r.BatteryVoltage = parseFloat(raw[keyBatteryVoltage])
	r.BatteryVoltageNominal = parseFloat(raw[keyBatteryVoltageNominal])
	r.InputVoltageNominal = parseFloat(raw[keyInputVoltageNominal])
	r.RealpowerNominal = parseFloat(raw[keyRealpowerNominal])
	r.DeviceModel = strings.TrimSpace(raw[keyDeviceModel])
	r.DeviceSerial = strings.TrimSpace(raw[keyDeviceSerial])
	r.LastTransferReason = strings.TrimSpace(raw[keyTransferReason])
	r.UpsTestResult = strings.TrimSpace(raw[keyTestResult])
	r.DriverVersion = strings.TrimSpace(raw[keyDriverVersion])

	return r, nil
}

// splitTokens splits a lowercased status string on whitespace and commas.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// classify maps the token set to the numeric severity. Duplicates and order
// are irrelevant; the highest-severity recognized token wins.
func classify(tokens []string) int {
	for _, sv := range severityByToken {
		if hasToken(tokens, sv.token) {
			return sv.severity
		}
	}
	return StatusUnknown
}

// triState returns 1 if yes is present, 0 if no is present, -1 otherwise.
// A token set containing both resolves to the positive reading, matching
// the severity rule that the stronger signal wins.
func triState(tokens []string, yes, no string) int {
	if hasToken(tokens, yes) {
		return TriTrue
	}
	if hasToken(tokens, no) {
		return TriFalse
	}
	return TriUnknown
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// parseFloat parses a NUT numeric value. NUT values occasionally carry a
// trailing unit ("230.4 V") or a comma decimal separator; both are
// tolerated. Unparsable input yields nil, never an error.
func parseFloat(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return &f
	}

	v = strings.ReplaceAll(v, ",", ".")
	if fields := strings.Fields(v); len(fields) > 0 {
		if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return &f
		}
	}
	return nil
}

// parseInt parses an integer-valued NUT variable, accepting float notation
// ("1430.0") by truncation.
func parseInt(v string) *int {
	f := parseFloat(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
