package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	t.Parallel()

	l := launchSample(t)

	var out bytes.Buffer
	r := NewConsole(&out, WithVersion("1.2.3"), WithHost(testHost), WithColor(false))
	if err := l.Report(r); err != nil {
		t.Fatalf("failed to report: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		Separator('='),
		Separator('-'),
		"phasebench report. Version 1.2.3\n",
		"CPU architecture: test-cpu\n",
		"CPU logical cores: 8\n",
		"CPU clock speed: 3.600 GHz\n",
		"CPU Hyper-Threading: enabled\n",
		"RAM total: 16.000 GiB\n",
		"OS version: TestOS 1.0\n",
		"OS bits: 64-bit\n",
		"Process configuration: release\n",
		"UTC timestamp: Wed May  1 12:00:00 2024\n",
		"Benchmark: sample\n",
		"Attempts: 1\n",
		"Operations: 10\n",
		"Phase: sample\n",
		"Phase: sample.child\n",
		"Average time: ",
		"Total operations: 10\n",
		"Total items: 20\n",
		"Total bytes: 10.000 KiB\n",
		"Custom values:\n",
		"\tanswer: 42\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, got)
		}
	}

	if strings.Contains(got, "\x1b[") {
		t.Error("expected no color escape codes")
	}
	if !strings.HasSuffix(got, Separator('=')+"\n") {
		t.Error("expected the report to end with a separator")
	}
}

func TestConsoleForcedColor(t *testing.T) {
	t.Parallel()

	l := launchSample(t)

	var out bytes.Buffer
	if err := l.Report(NewConsole(&out, WithHost(testHost), WithColor(true))); err != nil {
		t.Fatalf("failed to report: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[") {
		t.Error("expected color escape codes")
	}
	if !strings.Contains(out.String(), "Version "+DefaultVersion) {
		t.Error("expected the default version")
	}
}
