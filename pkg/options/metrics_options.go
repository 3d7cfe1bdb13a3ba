package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*MetricsOptions)(nil)

// MetricsOptions configures the HTTP endpoint serving Prometheus metrics and
// health probes. Leaving Addr empty disables the server.
type MetricsOptions struct {
	// Addr is the bind address of the metrics/health HTTP server.
	Addr string `json:"addr" mapstructure:"addr"`
}

// NewMetricsOptions creates a MetricsOptions object with default parameters.
func NewMetricsOptions() *MetricsOptions {
	return &MetricsOptions{
		Addr: ":9090",
	}
}

// Enabled reports whether the metrics server should be started.
func (o *MetricsOptions) Enabled() bool {
	return o != nil && o.Addr != ""
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *MetricsOptions) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags related to the metrics server to the specified FlagSet.
func (o *MetricsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "metrics.addr", o.Addr, "Bind address of the metrics/health HTTP server. Empty disables it.")
}
