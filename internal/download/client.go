package download

import (
	"net/http"
	"time"
)

const userAgent = "facefusion-assets/1.0 (Go asset fetcher)"

// HTTPClient represents the subset of http.Client methods required by the
// downloaders.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// newHTTPClient builds a client tuned for large asset transfers. Compression
// stays disabled so Content-Length reflects the bytes on the wire.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
