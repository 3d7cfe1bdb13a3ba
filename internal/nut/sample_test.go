package nut

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nutbridge-io/nutbridge/pkg/options"
)

const sampleBlock = `battery.charge: 100
battery.runtime: 1430
ups.status: OL CHRG
ups.load: 23
input.voltage: 230.4
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample_upsc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestSampleSourceFetch(t *testing.T) {
	src, err := NewSampleSource(writeSample(t, sampleBlock))
	if err != nil {
		t.Fatalf("NewSampleSource: %v", err)
	}
	defer src.Close()

	vars, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if vars["ups.status"] != "OL CHRG" {
		t.Errorf("ups.status = %q, want %q", vars["ups.status"], "OL CHRG")
	}
	if vars["battery.runtime"] != "1430" {
		t.Errorf("battery.runtime = %q, want %q", vars["battery.runtime"], "1430")
	}
}

func TestSampleSourceSeesFileChanges(t *testing.T) {
	path := writeSample(t, sampleBlock)
	src, err := NewSampleSource(path)
	if err != nil {
		t.Fatalf("NewSampleSource: %v", err)
	}
	defer src.Close()

	if err := os.WriteFile(path, []byte("ups.status: OB LB\n"), 0o644); err != nil {
		t.Fatalf("rewrite sample: %v", err)
	}

	vars, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if vars["ups.status"] != "OB LB" {
		t.Errorf("ups.status = %q, want %q after rewrite", vars["ups.status"], "OB LB")
	}
}

func TestSampleSourceMissingFile(t *testing.T) {
	if _, err := NewSampleSource(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing sample file")
	}
}

func TestSampleSourceEmptyFile(t *testing.T) {
	if _, err := NewSampleSource(writeSample(t, "no separators here")); err == nil {
		t.Fatal("expected error for a sample file without variables")
	}
}

func TestSampleSourceCancelledContext(t *testing.T) {
	src, err := NewSampleSource(writeSample(t, sampleBlock))
	if err != nil {
		t.Fatalf("NewSampleSource: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewSourceSelection(t *testing.T) {
	sampleOpts := options.NewNutOptions()
	sampleOpts.Source = options.SourceSample
	sampleOpts.SampleFile = writeSample(t, sampleBlock)

	src, err := NewSource(sampleOpts)
	if err != nil {
		t.Fatalf("NewSource(sample): %v", err)
	}
	if _, ok := src.(*SampleSource); !ok {
		t.Errorf("NewSource(sample) = %T, want *SampleSource", src)
	}

	liveOpts := options.NewNutOptions()
	liveOpts.Target = "ups@localhost"
	src, err = NewSource(liveOpts)
	if err != nil {
		t.Fatalf("NewSource(upsc): %v", err)
	}
	if _, ok := src.(*UpscSource); !ok {
		t.Errorf("NewSource(upsc) = %T, want *UpscSource", src)
	}

	badOpts := options.NewNutOptions()
	badOpts.Source = "carrier-pigeon"
	if _, err := NewSource(badOpts); err == nil {
		t.Fatal("expected error for unknown source mode")
	}
}
