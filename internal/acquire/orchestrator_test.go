package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/ledger"
	"github.com/samir-abis/facefusion/internal/logger"
)

// assetServer serves named payloads and counts requests.
type assetServer struct {
	srv      *httptest.Server
	payloads map[string][]byte

	mu       sync.Mutex
	gets     map[string]int
	requests int
}

func newAssetServer(payloads map[string][]byte) *assetServer {
	s := &assetServer{
		payloads: payloads,
		gets:     make(map[string]int),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		name := strings.TrimPrefix(r.URL.Path, "/")
		payload, ok := s.payloads[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodHead:
			w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		case http.MethodGet:
			s.mu.Lock()
			s.gets[name]++
			s.mu.Unlock()
			w.Write(payload)
		}
	}))
	return s
}

func (s *assetServer) Close() {
	s.srv.Close()
}

func (s *assetServer) url(name string) string {
	return s.srv.URL + "/" + name
}

func (s *assetServer) getCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[name]
}

func (s *assetServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

type lifecycleRecorder struct {
	checkpoints atomic.Int32
	completes   atomic.Int32
}

func (l *lifecycleRecorder) Checkpoint(ctx context.Context) error {
	l.checkpoints.Add(1)
	return ctx.Err()
}

func (l *lifecycleRecorder) Complete() {
	l.completes.Add(1)
}

type recordingStore struct {
	mu      sync.Mutex
	entries []ledger.Entry
}

func (r *recordingStore) Record(ctx context.Context, entry ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingStore) Recent(ctx context.Context, limit int) ([]ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ledger.Entry(nil), r.entries...), nil
}

func (r *recordingStore) Close() error {
	return nil
}

func newTestOrchestrator(t *testing.T, dir string, opts ...OrchestratorOption) (*Orchestrator, *logger.MockLogger) {
	t.Helper()
	log := logger.NewMockLogger()
	orch, err := NewOrchestrator(dir, log, opts...)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}
	return orch, log
}

func TestAcquireHashesDownloadsMissing(t *testing.T) {
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i)
	}
	srv := newAssetServer(map[string][]byte{"w.hash": payload})
	defer srv.Close()

	dir := t.TempDir()
	lc := &lifecycleRecorder{}
	orch, log := newTestOrchestrator(t, dir, WithLifecycle(lc))

	set := AssetSet{
		"weights": {URL: srv.url("w.hash"), Path: filepath.Join(dir, "w.hash")},
	}
	ok, err := orch.AcquireHashes(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireHashes failed: %v", err)
	}
	if !ok {
		t.Fatal("AcquireHashes = false, want true")
	}

	info, statErr := os.Stat(filepath.Join(dir, "w.hash"))
	if statErr != nil {
		t.Fatalf("downloaded file missing: %v", statErr)
	}
	if info.Size() != 1000 {
		t.Errorf("downloaded size = %d, want 1000", info.Size())
	}
	if !log.HasEntry(logger.LevelDebug, "validation succeeded") {
		t.Error("missing debug log for the valid asset")
	}
	if got := lc.completes.Load(); got != 1 {
		t.Errorf("Complete signaled %d times, want 1", got)
	}
}

func TestAcquireHashesIdempotent(t *testing.T) {
	srv := newAssetServer(map[string][]byte{"a.hash": []byte("A"), "b.hash": []byte("B")})
	defer srv.Close()

	dir := t.TempDir()
	for _, name := range []string{"a.hash", "b.hash"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	orch, _ := newTestOrchestrator(t, dir)
	set := AssetSet{
		"a": {URL: srv.url("a.hash"), Path: filepath.Join(dir, "a.hash")},
		"b": {URL: srv.url("b.hash"), Path: filepath.Join(dir, "b.hash")},
	}

	ok, err := orch.AcquireHashes(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireHashes failed: %v", err)
	}
	if !ok {
		t.Fatal("AcquireHashes = false for fully present set")
	}
	if got := srv.requestCount(); got != 0 {
		t.Errorf("server saw %d requests for an already valid set, want 0", got)
	}
}

func TestAcquireSourcesSelfHeal(t *testing.T) {
	good := "complete and correct model payload"
	srv := newAssetServer(map[string][]byte{"model.onnx": []byte(good)})
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "model.onnx")
	// Truncated local copy with the record of the real content.
	if err := os.WriteFile(dest, []byte("truncated"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	writeRecordFor(t, dest, good)

	orch, _ := newTestOrchestrator(t, dir)
	set := AssetSet{
		"model": {URL: srv.url("model.onnx"), Path: dest},
	}

	ok, err := orch.AcquireSources(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireSources failed: %v", err)
	}
	if !ok {
		t.Fatal("AcquireSources = false, want self-healed true")
	}
	content, readErr := os.ReadFile(dest)
	if readErr != nil {
		t.Fatalf("ReadFile failed: %v", readErr)
	}
	if string(content) != good {
		t.Errorf("file content = %q, want the fresh payload", content)
	}

	// A second run is quiet: everything validates, nothing is fetched.
	ok, err = orch.AcquireSources(context.Background(), set)
	if err != nil {
		t.Fatalf("second AcquireSources failed: %v", err)
	}
	if !ok {
		t.Fatal("second AcquireSources = false, want true")
	}
	if got := srv.getCount("model.onnx"); got != 1 {
		t.Errorf("server saw %d GET requests across both runs, want 1", got)
	}
}

func TestAcquireSourcesDeletesStillCorrupt(t *testing.T) {
	// The server serves bytes that do not match the companion record, so
	// the downloaded file stays invalid.
	srv := newAssetServer(map[string][]byte{"model.onnx": []byte("evil payload")})
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "model.onnx")
	writeRecordFor(t, dest, "expected payload")

	orch, log := newTestOrchestrator(t, dir)
	set := AssetSet{
		"model": {URL: srv.url("model.onnx"), Path: dest},
	}

	ok, err := orch.AcquireSources(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireSources failed: %v", err)
	}
	if ok {
		t.Fatal("AcquireSources = true for a corrupt download")
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("corrupt file was not deleted, stat err = %v", statErr)
	}
	if !log.HasEntry(logger.LevelError, "validation failed") {
		t.Error("missing error log for the invalid asset")
	}
	if !log.HasEntry(logger.LevelError, "deleted corrupt file") {
		t.Error("missing deletion log")
	}
}

func TestAcquireSourcesSkipDownload(t *testing.T) {
	srv := newAssetServer(map[string][]byte{"model.onnx": []byte("payload")})
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "model.onnx")
	if err := os.WriteFile(dest, []byte("corrupt"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	writeRecordFor(t, dest, "payload")

	orch, log := newTestOrchestrator(t, dir, WithSkipDownload(true))
	set := AssetSet{
		"model": {URL: srv.url("model.onnx"), Path: dest},
	}

	ok, err := orch.AcquireSources(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireSources failed: %v", err)
	}
	if ok {
		t.Fatal("AcquireSources = true with skip-download and a corrupt file")
	}
	if got := srv.requestCount(); got != 0 {
		t.Errorf("server saw %d requests with skip-download set, want 0", got)
	}
	if !log.HasEntry(logger.LevelError, "validation failed") {
		t.Error("validation logging should still run with skip-download")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("corrupt file should still be cleaned up, stat err = %v", statErr)
	}
}

func TestAcquireHashesStopRequested(t *testing.T) {
	srv := newAssetServer(map[string][]byte{"a.hash": []byte("A")})
	defer srv.Close()

	dir := t.TempDir()
	lc := NewStateLifecycle()
	lc.Stop()

	orch, _ := newTestOrchestrator(t, dir, WithLifecycle(lc))
	set := AssetSet{
		"a": {URL: srv.url("a.hash"), Path: filepath.Join(dir, "a.hash")},
	}

	ok, err := orch.AcquireHashes(context.Background(), set)
	if err == nil {
		t.Fatal("AcquireHashes proceeded after a stop request")
	}
	if ok {
		t.Error("AcquireHashes = true after a stop request")
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("error is not canceled: %v", err)
	}
	if got := srv.requestCount(); got != 0 {
		t.Errorf("server saw %d requests after a stop request, want 0", got)
	}
}

func TestAcquireHashesCanceledContext(t *testing.T) {
	srv := newAssetServer(map[string][]byte{"a.hash": []byte("A")})
	defer srv.Close()

	dir := t.TempDir()
	orch, _ := newTestOrchestrator(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set := AssetSet{
		"a": {URL: srv.url("a.hash"), Path: filepath.Join(dir, "a.hash")},
	}
	_, err := orch.AcquireHashes(ctx, set)
	if err == nil {
		t.Fatal("AcquireHashes ignored a canceled context")
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("error is not canceled: %v", err)
	}
}

func TestAcquireRecordsLedger(t *testing.T) {
	srv := newAssetServer(map[string][]byte{"good.hash": []byte("G")})
	defer srv.Close()

	dir := t.TempDir()
	store := &recordingStore{}
	orch, _ := newTestOrchestrator(t, dir, WithLedger(store))

	set := AssetSet{
		"good": {URL: srv.url("good.hash"), Path: filepath.Join(dir, "good.hash")},
		"bad":  {URL: srv.url("absent.hash"), Path: filepath.Join(dir, "absent.hash")},
	}

	ok, err := orch.AcquireHashes(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireHashes failed: %v", err)
	}
	if ok {
		t.Fatal("AcquireHashes = true despite an unfetchable asset")
	}

	entries, _ := store.Recent(context.Background(), 10)
	if len(entries) != 2 {
		t.Fatalf("ledger holds %d entries, want 2", len(entries))
	}

	byName := make(map[string]ledger.Entry, len(entries))
	for _, entry := range entries {
		if entry.Kind != "hash" {
			t.Errorf("entry kind = %s, want hash", entry.Kind)
		}
		byName[entry.Name] = entry
	}
	if !byName["good"].Valid {
		t.Error("good asset recorded as invalid")
	}
	if byName["bad"].Valid {
		t.Error("bad asset recorded as valid")
	}
}

func TestAcquireCompleteNotSignaledOnFailure(t *testing.T) {
	srv := newAssetServer(map[string][]byte{})
	defer srv.Close()

	dir := t.TempDir()
	lc := &lifecycleRecorder{}
	orch, _ := newTestOrchestrator(t, dir, WithLifecycle(lc))

	set := AssetSet{
		"missing": {URL: srv.url("missing.hash"), Path: filepath.Join(dir, "missing.hash")},
	}
	ok, err := orch.AcquireHashes(context.Background(), set)
	if err != nil {
		t.Fatalf("AcquireHashes failed: %v", err)
	}
	if ok {
		t.Fatal("AcquireHashes = true for an unfetchable asset")
	}
	if got := lc.completes.Load(); got != 0 {
		t.Errorf("Complete signaled %d times on failure, want 0", got)
	}
}

func TestNewOrchestratorValidatesArguments(t *testing.T) {
	if _, err := NewOrchestrator("", logger.NewMockLogger()); err == nil {
		t.Error("NewOrchestrator accepted an empty directory")
	}
	if _, err := NewOrchestrator(t.TempDir(), nil); err == nil {
		t.Error("NewOrchestrator accepted a nil logger")
	}
}
