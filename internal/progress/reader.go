package progress

import "io"

// Reader wraps an io.Reader and relays byte counts to a Reporter.
type Reader struct {
	reader   io.Reader
	reporter Reporter
}

// NewReader constructs a progress tracking reader. A nil reporter disables
// reporting.
func NewReader(r io.Reader, reporter Reporter) *Reader {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Reader{reader: r, reporter: reporter}
}

// Read implements io.Reader and relays progress.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.reporter.Advance(int64(n))
	}
	return n, err
}
