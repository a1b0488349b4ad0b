package progress

import "sync"

// Reporter receives progress updates for one transfer at a time. Start
// announces the label and expected byte count (zero when unknown), Advance
// reports bytes moved since the previous call, and Finish closes the
// transfer.
type Reporter interface {
	Start(label string, total int64)
	Advance(n int64)
	Finish()
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) Start(string, int64) {}
func (NopReporter) Advance(int64)       {}
func (NopReporter) Finish()             {}

// StartEvent is one captured Start call.
type StartEvent struct {
	Label string
	Total int64
}

// Recorder captures progress events so tests can assert on them.
type Recorder struct {
	mu       sync.Mutex
	starts   []StartEvent
	advanced int64
	finishes int
}

func (r *Recorder) Start(label string, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, StartEvent{Label: label, Total: total})
}

func (r *Recorder) Advance(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanced += n
}

func (r *Recorder) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishes++
}

// Starts returns a copy of the captured Start events.
func (r *Recorder) Starts() []StartEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StartEvent, len(r.starts))
	copy(out, r.starts)
	return out
}

// Advanced returns the total number of bytes reported so far.
func (r *Recorder) Advanced() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advanced
}

// Finishes returns how many transfers completed.
func (r *Recorder) Finishes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishes
}
