package download

import (
	"testing"
	"time"
)

func TestSizeComplete(t *testing.T) {
	tests := []struct {
		name  string
		size  Size
		local int64
		want  bool
	}{
		{"unknown size never complete", Size{}, 100, false},
		{"local smaller", KnownSize(100), 50, false},
		{"local equal", KnownSize(100), 100, true},
		{"local larger", KnownSize(100), 150, true},
		{"zero byte asset", KnownSize(0), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Complete(tt.local); got != tt.want {
				t.Errorf("Complete(%d) = %v, want %v", tt.local, got, tt.want)
			}
		})
	}
}

func TestSizeCacheRoundTrip(t *testing.T) {
	c := NewSizeCache()

	if _, ok := c.Lookup("https://example.com/a.onnx"); ok {
		t.Error("Lookup on an empty cache returned a hit")
	}

	c.Store("https://example.com/a.onnx", KnownSize(42))

	size, ok := c.Lookup("https://example.com/a.onnx")
	if !ok {
		t.Fatal("stored entry missing")
	}
	if !size.Known || size.Bytes != 42 {
		t.Errorf("Lookup = %+v, want known size of 42", size)
	}
}

func TestSizeCacheStoresUnknownResults(t *testing.T) {
	c := NewSizeCache()
	c.Store("https://example.com/flaky.onnx", Size{})

	size, ok := c.Lookup("https://example.com/flaky.onnx")
	if !ok {
		t.Fatal("unknown result was not cached")
	}
	if size.Known {
		t.Errorf("Lookup = %+v, want unknown size", size)
	}
}

func TestSizeCacheInvalidate(t *testing.T) {
	c := NewSizeCache()
	c.Store("https://example.com/a.onnx", KnownSize(7))

	c.Invalidate("https://example.com/a.onnx")

	if _, ok := c.Lookup("https://example.com/a.onnx"); ok {
		t.Error("entry survived Invalidate")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestSizeCacheTTL(t *testing.T) {
	c := NewSizeCache(WithTTL(time.Minute))

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Store("https://example.com/a.onnx", KnownSize(7))
	if _, ok := c.Lookup("https://example.com/a.onnx"); !ok {
		t.Fatal("fresh entry missing")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.Lookup("https://example.com/a.onnx"); ok {
		t.Error("expired entry still served")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len = %d after expiry, want 0", got)
	}
}
