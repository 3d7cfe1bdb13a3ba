// Package options defines reusable option groups shared by the nutbridge
// commands. Each group knows its defaults, its command-line flags and how to
// validate itself.
package options

import (
	"fmt"
	"net"
)

// IOptions is implemented by every option group.
type IOptions interface {
	// Validate checks the option values entered by the user at startup.
	Validate() []error
}

// ValidateAddress checks that addr is a parsable host:port pair.
func ValidateAddress(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}
