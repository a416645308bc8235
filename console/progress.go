package console

import (
	"io"

	"github.com/fatih/color"

	"github.com/phasebench/phasebench/benchmark"
)

// progress prints one line per launch to w:
//
//	[ 42%] Launching sort(threads:4). Attempt 2...Done!
type progress struct {
	w       io.Writer
	percent *color.Color
	text    *color.Color
	name    *color.Color
	attempt *color.Color
	done    *color.Color
}

var _ benchmark.LauncherHandler = (*progress)(nil)

func newProgress(w io.Writer) *progress {
	return &progress{
		w:       w,
		percent: color.New(color.FgHiBlack),
		text:    color.New(color.FgWhite),
		name:    color.New(color.FgHiCyan),
		attempt: color.New(color.FgHiWhite),
		done:    color.New(color.FgHiGreen),
	}
}

// OnLaunching prints the launch being started.
func (p *progress) OnLaunching(current, total int, b benchmark.Benchmark, ctx *benchmark.Context, attempt int) {
	percent := 100
	if total > 0 {
		percent = 100 * current / total
	}
	_, _ = p.percent.Fprintf(p.w, "[%3d%%] ", percent)
	_, _ = p.text.Fprint(p.w, "Launching ")
	_, _ = p.name.Fprint(p.w, b.Name()+ctx.Description())
	_, _ = p.text.Fprint(p.w, ". Attempt ")
	_, _ = p.attempt.Fprint(p.w, attempt)
	_, _ = p.text.Fprint(p.w, "...")
}

// OnLaunched finishes the line of the launch.
func (p *progress) OnLaunched(int, int, benchmark.Benchmark, *benchmark.Context, int) {
	_, _ = p.done.Fprintln(p.w, "Done!")
}
