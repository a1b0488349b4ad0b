package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRecorderCapturesEvents(t *testing.T) {
	rec := &Recorder{}

	rec.Start("inswapper_128.onnx", 100)
	rec.Advance(60)
	rec.Advance(40)
	rec.Finish()

	starts := rec.Starts()
	if len(starts) != 1 {
		t.Fatalf("got %d start events, want 1", len(starts))
	}
	if starts[0].Label != "inswapper_128.onnx" || starts[0].Total != 100 {
		t.Errorf("start event = %+v, want label inswapper_128.onnx total 100", starts[0])
	}
	if got := rec.Advanced(); got != 100 {
		t.Errorf("Advanced = %d, want 100", got)
	}
	if got := rec.Finishes(); got != 1 {
		t.Errorf("Finishes = %d, want 1", got)
	}
}

func TestReaderRelaysByteCounts(t *testing.T) {
	rec := &Recorder{}
	src := strings.NewReader("0123456789abcdef")

	r := NewReader(src, rec)
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	if got := rec.Advanced(); got != 16 {
		t.Errorf("Advanced = %d, want 16", got)
	}
}

func TestReaderNilReporter(t *testing.T) {
	r := NewReader(strings.NewReader("data"), nil)
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
}

func TestConsoleReporterKnownTotal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleReporter(&buf)

	c.Start("model.onnx", 2048)
	c.Advance(2048)
	c.Finish()

	out := buf.String()
	if !strings.Contains(out, "model.onnx") {
		t.Errorf("output missing label: %q", out)
	}
	if !strings.Contains(out, "starting download") {
		t.Errorf("output missing start line: %q", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("output missing completion line: %q", out)
	}
}

func TestConsoleReporterUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleReporter(&buf)

	c.Start("model.onnx", 0)
	c.Advance(1024)
	c.Finish()

	out := buf.String()
	if !strings.Contains(out, "size unknown") {
		t.Errorf("output missing unknown size notice: %q", out)
	}
	if strings.Contains(out, "%") {
		t.Errorf("unknown total should not render percentages: %q", out)
	}
	if !strings.Contains(out, "MB downloaded") {
		t.Errorf("output missing byte counter: %q", out)
	}
}
