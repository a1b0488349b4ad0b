package progress

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
)

// BarReporter renders transfers with an interactive progress bar. Intended
// for terminal output; non-TTY writers should use ConsoleReporter instead.
type BarReporter struct {
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewBarReporter constructs a BarReporter writing to w (defaults to stderr).
func NewBarReporter(w io.Writer) *BarReporter {
	if w == nil {
		w = os.Stderr
	}
	return &BarReporter{writer: w}
}

func (b *BarReporter) Start(label string, total int64) {
	if total < 0 {
		total = 0
	}
	bar := pb.New64(total)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", label+" ")
	bar.SetWriter(b.writer)
	b.bar = bar.Start()
}

func (b *BarReporter) Advance(n int64) {
	if b.bar != nil {
		b.bar.Add64(n)
	}
}

func (b *BarReporter) Finish() {
	if b.bar != nil {
		b.bar.Finish()
		b.bar = nil
	}
}
