package config

import "time"

// Options bundles the acquisition knobs passed down from the CLI. Explicit
// values replace process-wide flags, so parallel runs cannot interfere with
// each other.
type Options struct {
	SkipDownload bool
	MaxRetries   int
	ProbeTimeout time.Duration
	FetchTimeout time.Duration
}

// DefaultOptions returns the stock acquisition options.
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		ProbeTimeout: 10 * time.Second,
		FetchTimeout: 300 * time.Second,
	}
}

// Normalized fills non-positive fields with their defaults.
func (o Options) Normalized() Options {
	defaults := DefaultOptions()
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaults.MaxRetries
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = defaults.ProbeTimeout
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = defaults.FetchTimeout
	}
	return o
}
