package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Printer renders plain text report fragments for the CLI. Colour is enabled
// automatically for TTY outputs and respects NO_COLOR.
type Printer struct {
	out     io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	error   *color.Color
}

// NewPrinter constructs a Printer writing to out (defaults to stdout).
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}

	enabled := supportsColor(out) && os.Getenv("NO_COLOR") == ""

	p := &Printer{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgBlue, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		error:   color.New(color.FgRed, color.Bold),
	}

	if !enabled {
		p.success.DisableColor()
		p.info.DisableColor()
		p.warn.DisableColor()
		p.error.DisableColor()
	}

	return p
}

// PrintSeparator prints a repeated character separator.
func (p *Printer) PrintSeparator(char string, length int) {
	if length <= 0 {
		return
	}
	fmt.Fprintln(p.out, strings.Repeat(char, length))
}

// PrintHeader renders a section heading, used for asset set names.
func (p *Printer) PrintHeader(name string) {
	p.success.Fprintln(p.out, name)
}

// PrintLine outputs formatted text followed by a newline.
func (p *Printer) PrintLine(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// PrintAssetStatus renders the validity indicator line for one asset.
func (p *Printer) PrintAssetStatus(label string, valid bool) {
	text := "valid"
	if !valid {
		text = "invalid"
	}
	fmt.Fprintf(p.out, "[ %s ] %s (%s)\n", p.Mark(valid), label, text)
}

// Mark returns the coloured validity indicator character.
func (p *Printer) Mark(valid bool) string {
	if valid {
		return p.success.Sprint("✓")
	}
	return p.error.Sprint("✕")
}

// Pad right-pads s to the given display width, accounting for wide runes.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Widest returns the largest display width among the given strings.
func Widest(items []string) int {
	max := 0
	for _, item := range items {
		if width := runewidth.StringWidth(item); width > max {
			max = width
		}
	}
	return max
}

func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
