package download

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/logger"
)

const defaultProbeTimeout = 10 * time.Second

// Prober resolves remote content sizes with bounded HEAD requests.
type Prober struct {
	client  HTTPClient
	cache   *SizeCache
	logger  logger.Logger
	timeout time.Duration
}

// ProberOption customises Prober construction.
type ProberOption func(*Prober)

// WithProbeClient overrides the HTTP client used for probes.
func WithProbeClient(client HTTPClient) ProberOption {
	return func(p *Prober) {
		p.client = client
	}
}

// WithProbeCache shares a SizeCache across probers.
func WithProbeCache(cache *SizeCache) ProberOption {
	return func(p *Prober) {
		p.cache = cache
	}
}

// WithProbeTimeout bounds each probe request.
func WithProbeTimeout(timeout time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// NewProber constructs a Prober using the provided logger and options.
func NewProber(log logger.Logger, opts ...ProberOption) (*Prober, error) {
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule("download").
			WithOperation("NewProber")
	}

	p := &Prober{
		logger:  log,
		timeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.timeout <= 0 {
		p.timeout = defaultProbeTimeout
	}
	if p.cache == nil {
		p.cache = NewSizeCache()
	}
	if p.client == nil {
		p.client = newHTTPClient(p.timeout)
	}

	return p, nil
}

// RemoteSize resolves the content size for url. Results are memoized, so
// repeated lookups cost at most one probe per cache lifetime. Probe failures
// resolve to an unknown size, never an error.
func (p *Prober) RemoteSize(ctx context.Context, url string) Size {
	if size, ok := p.cache.Lookup(url); ok {
		return size
	}

	size := p.probe(ctx, url)
	p.cache.Store(url, size)
	return size
}

func (p *Prober) probe(ctx context.Context, url string) Size {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		p.logger.DebugContext(ctx, "size probe failed",
			logger.String("url", url),
			logger.Error(err))
		return Size{}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.DebugContext(ctx, "size probe failed",
			logger.String("url", url),
			logger.Error(err))
		return Size{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		p.logger.DebugContext(ctx, "size probe failed",
			logger.String("url", url),
			logger.Int("status", resp.StatusCode))
		return Size{}
	}
	if resp.ContentLength < 0 {
		p.logger.DebugContext(ctx, "size probe returned no content length",
			logger.String("url", url))
		return Size{}
	}

	return KnownSize(resp.ContentLength)
}
