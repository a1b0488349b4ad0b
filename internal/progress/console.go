package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	consoleBarWidth   = 30
	consoleLabelWidth = 24
	renderInterval    = 200 * time.Millisecond
)

// ConsoleReporter renders a plain self-updating progress line. Updates are
// throttled so tight read loops do not flood the writer.
type ConsoleReporter struct {
	writer io.Writer

	label      string
	total      int64
	current    int64
	started    time.Time
	lastRender time.Time
}

// NewConsoleReporter constructs a ConsoleReporter writing to w (defaults to
// stderr).
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleReporter{writer: w}
}

func (c *ConsoleReporter) Start(label string, total int64) {
	c.label = runewidth.FillRight(label, consoleLabelWidth)
	c.total = total
	c.current = 0
	c.started = time.Now()
	c.lastRender = time.Time{}

	if total > 0 {
		fmt.Fprintf(c.writer, "  %s starting download (%.2f MB total)\n", c.label, megabytes(total))
	} else {
		fmt.Fprintf(c.writer, "  %s starting download (size unknown)\n", c.label)
	}
}

func (c *ConsoleReporter) Advance(n int64) {
	c.current += n
	now := time.Now()
	if now.Sub(c.lastRender) < renderInterval {
		return
	}
	c.lastRender = now
	c.render()
}

func (c *ConsoleReporter) Finish() {
	if c.total > 0 {
		fmt.Fprintf(c.writer, "\r  %s [%s] 100.0%% (%.2f/%.2f MB) %.2f MB/s\n",
			c.label,
			strings.Repeat("=", consoleBarWidth),
			megabytes(c.total),
			megabytes(c.total),
			c.speed(),
		)
		return
	}
	fmt.Fprintf(c.writer, "\r  %s %.2f MB downloaded\n", c.label, megabytes(c.current))
}

func (c *ConsoleReporter) render() {
	if c.total > 0 {
		percentage := float64(c.current) / float64(c.total) * 100
		if percentage > 100 {
			percentage = 100
		}
		filled := int(float64(consoleBarWidth) * percentage / 100)
		if filled > consoleBarWidth {
			filled = consoleBarWidth
		}
		bar := strings.Repeat("=", filled)
		if filled < consoleBarWidth {
			bar += ">"
			bar += strings.Repeat(" ", consoleBarWidth-filled-1)
		}

		fmt.Fprintf(c.writer, "\r  %s [%s] %.1f%% (%.2f/%.2f MB) %.2f MB/s",
			c.label,
			bar,
			percentage,
			megabytes(c.current),
			megabytes(c.total),
			c.speed(),
		)
		return
	}
	fmt.Fprintf(c.writer, "\r  %s %.2f MB downloaded", c.label, megabytes(c.current))
}

func (c *ConsoleReporter) speed() float64 {
	elapsed := time.Since(c.started).Seconds()
	if elapsed <= 0 {
		elapsed = 0.001
	}
	return float64(c.current) / elapsed / 1024 / 1024
}

func megabytes(n int64) float64 {
	return float64(n) / 1024 / 1024
}
