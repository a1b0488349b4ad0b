package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/samir-abis/facefusion/internal/logger"
)

func TestProberRemoteSizeMemoized(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe used method %s, want HEAD", r.Method)
		}
		probes.Add(1)
		w.Header().Set("Content-Length", "1234")
	}))
	defer srv.Close()

	prober, err := NewProber(logger.NewMockLogger())
	if err != nil {
		t.Fatalf("NewProber failed: %v", err)
	}

	url := srv.URL + "/model.onnx"
	size := prober.RemoteSize(context.Background(), url)
	if !size.Known || size.Bytes != 1234 {
		t.Errorf("RemoteSize = %+v, want known size of 1234", size)
	}

	for i := 0; i < 3; i++ {
		prober.RemoteSize(context.Background(), url)
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("server saw %d probes, want 1", got)
	}
}

func TestProberDistinctURLsProbedSeparately(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Header().Set("Content-Length", "10")
	}))
	defer srv.Close()

	prober, err := NewProber(logger.NewMockLogger())
	if err != nil {
		t.Fatalf("NewProber failed: %v", err)
	}

	prober.RemoteSize(context.Background(), srv.URL+"/a.onnx")
	prober.RemoteSize(context.Background(), srv.URL+"/b.onnx")

	if got := probes.Load(); got != 2 {
		t.Errorf("server saw %d probes, want 2", got)
	}
}

func TestProberFailuresResolveUnknown(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		prober, err := NewProber(logger.NewMockLogger())
		if err != nil {
			t.Fatalf("NewProber failed: %v", err)
		}
		if size := prober.RemoteSize(context.Background(), srv.URL+"/absent.onnx"); size.Known {
			t.Errorf("RemoteSize = %+v, want unknown", size)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL + "/gone.onnx"
		srv.Close()

		prober, err := NewProber(logger.NewMockLogger())
		if err != nil {
			t.Fatalf("NewProber failed: %v", err)
		}
		if size := prober.RemoteSize(context.Background(), url); size.Known {
			t.Errorf("RemoteSize = %+v, want unknown", size)
		}
	})

	t.Run("failure is cached", func(t *testing.T) {
		var probes atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			probes.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		log := logger.NewMockLogger()
		prober, err := NewProber(log)
		if err != nil {
			t.Fatalf("NewProber failed: %v", err)
		}

		url := srv.URL + "/flaky.onnx"
		prober.RemoteSize(context.Background(), url)
		prober.RemoteSize(context.Background(), url)

		if got := probes.Load(); got != 1 {
			t.Errorf("server saw %d probes, want 1", got)
		}
		if !log.HasEntry(logger.LevelDebug, "size probe failed") {
			t.Error("probe failure was not logged at debug level")
		}
	})
}

func TestProberSharedCacheInvalidation(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Header().Set("Content-Length", "10")
	}))
	defer srv.Close()

	cache := NewSizeCache()
	prober, err := NewProber(logger.NewMockLogger(), WithProbeCache(cache))
	if err != nil {
		t.Fatalf("NewProber failed: %v", err)
	}

	url := srv.URL + "/model.onnx"
	prober.RemoteSize(context.Background(), url)
	cache.Invalidate(url)
	prober.RemoteSize(context.Background(), url)

	if got := probes.Load(); got != 2 {
		t.Errorf("server saw %d probes after invalidation, want 2", got)
	}
}

func TestNewProberRequiresLogger(t *testing.T) {
	if _, err := NewProber(nil); err == nil {
		t.Error("NewProber(nil) did not fail")
	}
}
