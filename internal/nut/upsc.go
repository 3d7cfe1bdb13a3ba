package nut

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// upscCommand is the NUT client binary invoked for live queries.
const upscCommand = "upsc"

// UpscSource queries a live NUT daemon by running `upsc <target>` with a
// bounded timeout.
type UpscSource struct {
	target  string
	timeout time.Duration
}

var _ Source = (*UpscSource)(nil)

// NewUpscSource returns a live provider for the given NUT target
// (e.g. "qnapups@192.168.1.20").
func NewUpscSource(target string, timeout time.Duration) *UpscSource {
	return &UpscSource{target: target, timeout: timeout}
}

func (s *UpscSource) Fetch(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, upscCommand, s.target)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("upsc %s timed out after %s", s.target, s.timeout)
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("upsc %s: %w: %s", s.target, err, msg)
		}
		return nil, fmt.Errorf("upsc %s: %w", s.target, err)
	}

	vars := ParseBlock(string(out))
	if len(vars) == 0 {
		return nil, fmt.Errorf("upsc %s returned no variables", s.target)
	}
	return vars, nil
}

func (s *UpscSource) Close() error {
	return nil
}
