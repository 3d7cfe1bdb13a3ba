package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/nutbridge-io/nutbridge/internal/agent"
	"github.com/nutbridge-io/nutbridge/pkg/app"
	"github.com/nutbridge-io/nutbridge/pkg/log"
	"github.com/nutbridge-io/nutbridge/pkg/options"
)

// AgentOptions holds the full configuration surface of the bridge agent.
type AgentOptions struct {
	Nut     *options.NutOptions     `json:"nut" mapstructure:"nut"`
	Udp     *options.UdpOptions     `json:"udp" mapstructure:"udp"`
	Mqtt    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	Metrics *options.MetricsOptions `json:"metrics" mapstructure:"metrics"`
	Log     *log.Options            `json:"log" mapstructure:"log"`

	// Interval is the fixed delay between poll cycles.
	Interval time.Duration `json:"interval" mapstructure:"interval"`

	// HostOverride replaces the system hostname in emitted readings.
	HostOverride string `json:"host-override" mapstructure:"host-override"`
}

var _ app.CliOptions = (*AgentOptions)(nil)

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		Nut:      options.NewNutOptions(),
		Udp:      options.NewUdpOptions(),
		Mqtt:     options.NewMqttOptions(),
		Metrics:  options.NewMetricsOptions(),
		Log:      log.NewOptions(),
		Interval: 10 * time.Second,
	}
}

func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	o.Nut.AddFlags(fs)
	o.Udp.AddFlags(fs)
	o.Mqtt.AddFlags(fs)
	o.Metrics.AddFlags(fs)
	o.Log.AddFlags(fs)

	fs.DurationVar(&o.Interval, "interval", o.Interval, "Fixed delay between poll cycles.")
	fs.StringVar(&o.HostOverride, "host-override", o.HostOverride,
		"Host identity stamped on readings instead of the system hostname.")
}

func (o *AgentOptions) Complete() error {
	return nil
}

func (o *AgentOptions) Validate() []error {
	var errs []error
	errs = append(errs, o.Nut.Validate()...)
	errs = append(errs, o.Udp.Validate()...)
	errs = append(errs, o.Mqtt.Validate()...)
	errs = append(errs, o.Metrics.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	if o.Interval <= 0 {
		errs = append(errs, errors.New("interval must be positive"))
	}

	return errs
}

// LogOptions exposes the logging section so the application framework can
// initialize the global logger.
func (o *AgentOptions) LogOptions() *log.Options {
	return o.Log
}

// Config builds the runnable agent configuration from validated options.
func (o *AgentOptions) Config() (*agent.Config, error) {
	return &agent.Config{
		Nut:          o.Nut,
		Udp:          o.Udp,
		Mqtt:         o.Mqtt,
		Metrics:      o.Metrics,
		Interval:     o.Interval,
		HostOverride: o.HostOverride,
	}, nil
}
