package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phasebench/phasebench/benchmark"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	l := launchSample(t)

	var out bytes.Buffer
	if err := l.Report(NewMarkdown(&out, WithVersion("1.2.3"), WithHost(testHost))); err != nil {
		t.Fatalf("failed to report: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"# phasebench report",
		"Version 1.2.3",
		"## System",
		"test-cpu",
		"3.600 GHz",
		"## Environment",
		"Release",
		"## Benchmark: sample",
		"### Phases",
		"`sample.child`",
		"### Custom values",
		"answer",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected markdown to contain %q\noutput:\n%s", want, got)
		}
	}
}

func TestMarkdownNoBenchmarks(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := benchmark.NewLauncher().Report(NewMarkdown(&out, WithHost(testHost))); err != nil {
		t.Fatalf("failed to report: %v", err)
	}
	if !strings.Contains(out.String(), "No benchmarks were launched.") {
		t.Errorf("expected a note, got:\n%s", out.String())
	}
}

func TestMarkdownNumberGrouping(t *testing.T) {
	t.Parallel()

	r := NewMarkdown(&bytes.Buffer{})
	if got := r.number(1234567); got != "1,234,567" {
		t.Errorf("expected 1,234,567, got %q", got)
	}
	if got := r.optional(0, "10"); got != "-" {
		t.Errorf("expected -, got %q", got)
	}
}
