package download

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/logger"
	"github.com/samir-abis/facefusion/internal/progress"
)

const (
	chunkSize           = 8 * 1024
	defaultFetchTimeout = 300 * time.Second
	downloadLabel       = "Downloading"
)

// Streamer performs retrying streamed downloads to the local filesystem.
type Streamer struct {
	client   HTTPClient
	fs       fsys.FileSystem
	logger   logger.Logger
	reporter progress.Reporter
	timeout  time.Duration
}

// StreamerOption customises Streamer construction.
type StreamerOption func(*Streamer)

// WithStreamClient overrides the HTTP client used for transfers.
func WithStreamClient(client HTTPClient) StreamerOption {
	return func(s *Streamer) {
		s.client = client
	}
}

// WithStreamFileSystem overrides the filesystem implementation.
func WithStreamFileSystem(fs fsys.FileSystem) StreamerOption {
	return func(s *Streamer) {
		s.fs = fs
	}
}

// WithStreamReporter overrides the progress reporter implementation.
func WithStreamReporter(reporter progress.Reporter) StreamerOption {
	return func(s *Streamer) {
		s.reporter = reporter
	}
}

// WithStreamTimeout bounds each transfer. Ignored when a client is supplied
// via WithStreamClient.
func WithStreamTimeout(timeout time.Duration) StreamerOption {
	return func(s *Streamer) {
		s.timeout = timeout
	}
}

// NewStreamer constructs a Streamer using the provided logger and options.
func NewStreamer(log logger.Logger, opts ...StreamerOption) (*Streamer, error) {
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule("download").
			WithOperation("NewStreamer")
	}

	s := &Streamer{
		logger:  log,
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.timeout <= 0 {
		s.timeout = defaultFetchTimeout
	}
	if s.client == nil {
		s.client = newHTTPClient(s.timeout)
	}
	if s.fs == nil {
		s.fs = fsys.OS{}
	}
	if s.reporter == nil {
		s.reporter = progress.NopReporter{}
	}

	return s, nil
}

// Fetch downloads url into dest, retrying failed attempts immediately up to
// maxRetries attempts in total. A partially written dest is removed when the
// budget is exhausted. Cancellation stops the retry loop between attempts
// and surfaces as a CANCELED error.
func (s *Streamer) Fetch(ctx context.Context, url, dest string, maxRetries int) error {
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	touched := false

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		wrote, err := s.attempt(ctx, url, dest)
		touched = touched || wrote
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.WarnContext(ctx, "download attempt failed",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.Int("attempts", maxRetries),
			logger.Error(err))

		if apperrors.IsCanceled(err) {
			break
		}
	}

	if touched {
		_ = s.fs.Remove(dest)
	}

	if ctx.Err() != nil || apperrors.IsCanceled(lastErr) {
		return apperrors.CanceledError("download canceled", lastErr).
			WithModule("download").
			WithOperation("Fetch").
			WithField("url", url)
	}

	s.logger.ErrorContext(ctx, "download failed after retries",
		logger.String("url", url),
		logger.Int("attempts", maxRetries))
	return apperrors.NetworkError(apperrors.CodeNetworkRetryExhausted, "download failed after retries", lastErr).
		WithModule("download").
		WithOperation("Fetch").
		WithField("url", url)
}

// attempt performs one streamed transfer. The boolean reports whether dest
// was created, so the caller knows to clean up after a failure.
func (s *Streamer) attempt(ctx context.Context, url, dest string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "failed to create download request", err).
			WithField("url", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download request failed", err).
			WithField("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download failed with unexpected status", nil).
			WithFields(apperrors.Metadata{
				"url":    url,
				"status": resp.StatusCode,
			})
	}

	file, err := s.fs.Create(dest)
	if err != nil {
		return false, apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to create local file", err).
			WithField("path", dest)
	}
	defer file.Close()

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	s.reporter.Start(downloadLabel, total)

	// io.CopyBuffer would delegate to the file's ReadFrom and bypass the
	// fixed chunk size, so copy by hand.
	reader := progress.NewReader(resp.Body, s.reporter)
	buf := make([]byte, chunkSize)
	for {
		n, rerr := reader.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return true, apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to write file to disk", werr).
					WithField("path", dest)
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return true, apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download stream interrupted", rerr).
				WithField("url", url)
		}
	}

	s.reporter.Finish()
	return true, nil
}
