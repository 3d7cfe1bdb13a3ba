package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*NutOptions)(nil)

// Source modes for acquiring UPS data.
const (
	// SourceUpsc queries a live NUT daemon through the upsc utility.
	SourceUpsc = "upsc"
	// SourceSample reads a static upsc-format sample file (dev/offline).
	SourceSample = "sample"
)

// NutOptions configures how raw UPS status is acquired.
type NutOptions struct {
	// Target is the NUT target passed to upsc, e.g. "qnapups@192.168.1.20".
	Target string `json:"target" mapstructure:"target"`

	// Source selects the provider: "upsc" (live) or "sample" (file).
	Source string `json:"source" mapstructure:"source"`

	// SampleFile is the path of the sample block used in "sample" mode.
	SampleFile string `json:"sample-file" mapstructure:"sample-file"`

	// Timeout bounds a single acquisition, including the upsc invocation.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewNutOptions creates a NutOptions object with default parameters.
func NewNutOptions() *NutOptions {
	return &NutOptions{
		Source:  SourceUpsc,
		Timeout: 3 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *NutOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Source {
	case SourceUpsc:
		if o.Target == "" {
			errors = append(errors, fmt.Errorf("nut.target is required in %q mode", SourceUpsc))
		}
	case SourceSample:
		if o.SampleFile == "" {
			errors = append(errors, fmt.Errorf("nut.sample-file is required in %q mode", SourceSample))
		}
	default:
		errors = append(errors, fmt.Errorf("unknown nut.source %q (want %q or %q)", o.Source, SourceUpsc, SourceSample))
	}

	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("nut.timeout must be positive, got %s", o.Timeout))
	}

	return errors
}

// AddFlags adds flags related to the NUT data source to the specified FlagSet.
func (o *NutOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Target, "nut.target", o.Target, "The NUT target queried via upsc, e.g. ups@host.")
	fs.StringVar(&o.Source, "nut.source", o.Source, "The raw status provider: 'upsc' or 'sample'.")
	fs.StringVar(&o.SampleFile, "nut.sample-file", o.SampleFile, "Path of a upsc-format sample file used in 'sample' mode.")
	fs.DurationVar(&o.Timeout, "nut.timeout", o.Timeout, "Timeout for a single acquisition attempt.")
}
