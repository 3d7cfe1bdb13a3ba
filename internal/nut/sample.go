package nut

import (
	"context"
	"fmt"
	"os"
)

// SampleSource reads a upsc-format sample file on every fetch. It exists for
// offline development and deterministic tests; editing the file between
// cycles changes the next reading, mirroring a live UPS changing state.
type SampleSource struct {
	path string
}

var _ Source = (*SampleSource)(nil)

// NewSampleSource returns a file-backed provider. The file must exist and
// contain at least one variable up front so that a misconfigured path fails
// at startup rather than degrading every cycle silently.
func NewSampleSource(path string) (*SampleSource, error) {
	s := &SampleSource{path: path}
	if _, err := s.Fetch(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SampleSource) Fetch(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read sample file: %w", err)
	}

	vars := ParseBlock(string(data))
	if len(vars) == 0 {
		return nil, fmt.Errorf("sample file %s contains no variables", s.path)
	}
	return vars, nil
}

func (s *SampleSource) Close() error {
	return nil
}
