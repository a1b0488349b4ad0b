package download

import (
	"context"
	"net/url"
	"path"
	"path/filepath"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/logger"
)

const defaultMaxRetries = 3

// BatchOutcome reports the result of one DownloadAll run. Completed and
// Skipped hold local paths; Failed names the first URL that exhausted its
// retry budget and aborted the remainder.
type BatchOutcome struct {
	Completed []string
	Skipped   []string
	Failed    string
	Err       error
}

// OK reports whether every URL resolved to a complete local file.
func (o BatchOutcome) OK() bool {
	return o.Err == nil
}

// FileNameFromURL extracts the final path segment of rawURL, the name the
// asset is stored under locally.
func FileNameFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", apperrors.ConfigError(apperrors.CodeConfigGeneric, "invalid download url", err).
			WithModule("download").
			WithField("url", rawURL)
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return "", apperrors.ConfigError(apperrors.CodeConfigGeneric, "download url has no file name", nil).
			WithModule("download").
			WithField("url", rawURL)
	}
	return name, nil
}

// Batch drives ordered multi-URL downloads into a single directory.
type Batch struct {
	prober     *Prober
	streamer   *Streamer
	fs         fsys.FileSystem
	logger     logger.Logger
	maxRetries int
}

// BatchOption customises Batch construction.
type BatchOption func(*Batch)

// WithBatchProber overrides the size prober.
func WithBatchProber(prober *Prober) BatchOption {
	return func(b *Batch) {
		b.prober = prober
	}
}

// WithBatchStreamer overrides the streaming downloader.
func WithBatchStreamer(streamer *Streamer) BatchOption {
	return func(b *Batch) {
		b.streamer = streamer
	}
}

// WithBatchFileSystem overrides the filesystem implementation.
func WithBatchFileSystem(fs fsys.FileSystem) BatchOption {
	return func(b *Batch) {
		b.fs = fs
	}
}

// WithBatchRetries sets the attempt budget per URL.
func WithBatchRetries(maxRetries int) BatchOption {
	return func(b *Batch) {
		b.maxRetries = maxRetries
	}
}

// NewBatch constructs a Batch using the provided logger and options.
func NewBatch(log logger.Logger, opts ...BatchOption) (*Batch, error) {
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule("download").
			WithOperation("NewBatch")
	}

	b := &Batch{
		logger:     log,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.maxRetries <= 0 {
		b.maxRetries = defaultMaxRetries
	}
	if b.fs == nil {
		b.fs = fsys.OS{}
	}
	if b.prober == nil {
		prober, err := NewProber(log)
		if err != nil {
			return nil, err
		}
		b.prober = prober
	}
	if b.streamer == nil {
		streamer, err := NewStreamer(log)
		if err != nil {
			return nil, err
		}
		b.streamer = streamer
	}

	return b, nil
}

// DownloadAll fetches every URL into dir in order. A URL is skipped when the
// local copy already covers the known remote size; an unknown remote size
// always downloads. The first URL that fails aborts the remainder.
func (b *Batch) DownloadAll(ctx context.Context, dir string, urls []string) BatchOutcome {
	var outcome BatchOutcome

	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		outcome.Err = apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to create download directory", err).
			WithModule("download").
			WithOperation("DownloadAll").
			WithField("path", dir)
		return outcome
	}

	for _, rawURL := range urls {
		name, err := FileNameFromURL(rawURL)
		if err != nil {
			outcome.Failed = rawURL
			outcome.Err = err
			return outcome
		}
		dest := filepath.Join(dir, name)

		local := b.fs.Size(dest)
		remote := b.prober.RemoteSize(ctx, rawURL)
		if remote.Complete(local) {
			b.logger.DebugContext(ctx, "local file already complete",
				logger.String("file", name),
				logger.Any("bytes", local))
			outcome.Skipped = append(outcome.Skipped, dest)
			continue
		}

		if err := b.streamer.Fetch(ctx, rawURL, dest, b.maxRetries); err != nil {
			outcome.Failed = rawURL
			outcome.Err = err
			return outcome
		}
		outcome.Completed = append(outcome.Completed, dest)
	}

	return outcome
}
