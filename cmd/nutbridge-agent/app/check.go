package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/nutbridge-io/nutbridge/internal/nut"
	"github.com/nutbridge-io/nutbridge/internal/reading"
	"github.com/nutbridge-io/nutbridge/pkg/options"
)

// newCheckCommand returns the one-shot diagnostic subcommand: poll the
// source once, normalize and print the reading as a table instead of
// sending it anywhere.
func newCheckCommand() *cobra.Command {
	nutOpts := options.NewNutOptions()

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Poll the UPS source once and print the normalized reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := nutOpts.Validate(); len(errs) > 0 {
				return errors.Join(errs...)
			}
			return runCheck(cmd, nutOpts)
		},
	}

	nutOpts.AddFlags(cmd.Flags())

	return cmd
}

func runCheck(cmd *cobra.Command, nutOpts *options.NutOptions) error {
	source, err := nut.NewSource(nutOpts)
	if err != nil {
		return err
	}
	defer source.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	raw, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("acquire UPS variables: %w", err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	r, err := reading.Normalize(raw, time.Now(), host)
	if err != nil {
		return fmt.Errorf("normalize UPS variables: %w", err)
	}

	table := uitable.New()
	table.AddRow("FIELD", "VALUE")
	table.AddRow("host", r.Host)
	table.AddRow("status_raw", r.StatusRaw)
	table.AddRow("ups_status", r.UpsStatus)
	table.AddRow("ups_on_line", r.UpsOnLine)
	table.AddRow("battery_charging", r.BatteryCharging)
	table.AddRow("battery_percent", formatOptional(r.BatteryPercent))
	table.AddRow("runtime_total_sec", r.RuntimeTotalSec)
	table.AddRow("runtime", fmt.Sprintf("%dm%02ds", r.RuntimeMin, r.RuntimeSec))
	table.AddRow("load_percent", formatOptional(r.LoadPercent))
	table.AddRow("input_voltage", formatOptional(r.InputVoltage))
	if r.DeviceModel != "" {
		table.AddRow("device_model", r.DeviceModel)
	}
	if r.DeviceSerial != "" {
		table.AddRow("device_serial", r.DeviceSerial)
	}
	if r.DriverVersion != "" {
		table.AddRow("driver_version", r.DriverVersion)
	}

	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
