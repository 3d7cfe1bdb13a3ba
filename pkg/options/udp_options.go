package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*UdpOptions)(nil)

// UdpOptions configures the UDP receiver the bridge reports to.
type UdpOptions struct {
	// Addr is the receiver address as host:port.
	Addr string `json:"addr" mapstructure:"addr"`
}

// NewUdpOptions creates a UdpOptions object with default parameters.
func NewUdpOptions() *UdpOptions {
	return &UdpOptions{
		Addr: "127.0.0.1:9999",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *UdpOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags related to the UDP receiver to the specified FlagSet.
func (o *UdpOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "udp.addr", o.Addr, "The UDP receiver address (host:port) readings are sent to.")
}
