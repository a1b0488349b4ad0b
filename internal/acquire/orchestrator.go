package acquire

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/samir-abis/facefusion/internal/download"
	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/ledger"
	"github.com/samir-abis/facefusion/internal/logger"
)

const (
	kindHash   = "hash"
	kindSource = "source"
)

// Orchestrator ensures asset sets are present and valid locally, fetching
// what is missing and removing what is corrupt.
type Orchestrator struct {
	dir          string
	logger       logger.Logger
	validator    *Validator
	batch        *download.Batch
	fs           fsys.FileSystem
	lifecycle    Lifecycle
	ledger       ledger.Store
	skipDownload bool
}

// OrchestratorOption customises Orchestrator construction.
type OrchestratorOption func(*Orchestrator)

// WithValidator overrides the validator.
func WithValidator(v *Validator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithBatch overrides the batch downloader.
func WithBatch(b *download.Batch) OrchestratorOption {
	return func(o *Orchestrator) {
		o.batch = b
	}
}

// WithFileSystem overrides the filesystem implementation.
func WithFileSystem(fs fsys.FileSystem) OrchestratorOption {
	return func(o *Orchestrator) {
		o.fs = fs
	}
}

// WithLifecycle overrides the cancellation collaborator.
func WithLifecycle(lifecycle Lifecycle) OrchestratorOption {
	return func(o *Orchestrator) {
		o.lifecycle = lifecycle
	}
}

// WithLedger attaches an acquisition journal. Outcomes are recorded after
// each re-validation pass.
func WithLedger(store ledger.Store) OrchestratorOption {
	return func(o *Orchestrator) {
		o.ledger = store
	}
}

// WithSkipDownload disables all network fetching. Validation and logging
// still run.
func WithSkipDownload(skip bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.skipDownload = skip
	}
}

// NewOrchestrator constructs an Orchestrator acquiring into dir.
func NewOrchestrator(dir string, log logger.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "asset directory must not be empty", nil).
			WithModule("acquire").
			WithOperation("NewOrchestrator")
	}
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule("acquire").
			WithOperation("NewOrchestrator")
	}

	o := &Orchestrator{
		dir:    dir,
		logger: log.With(logger.String("source", "acquire")),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.fs == nil {
		o.fs = fsys.OS{}
	}
	if o.validator == nil {
		o.validator = NewValidator(WithValidatorFileSystem(o.fs))
	}
	if o.lifecycle == nil {
		o.lifecycle = NopLifecycle{}
	}
	if o.batch == nil {
		batch, err := download.NewBatch(log, download.WithBatchFileSystem(o.fs))
		if err != nil {
			return nil, err
		}
		o.batch = batch
	}

	return o, nil
}

// AcquireHashes ensures every companion hash artifact in set exists locally.
func (o *Orchestrator) AcquireHashes(ctx context.Context, set AssetSet) (bool, error) {
	return o.acquire(ctx, set, ExistenceOnly, kindHash)
}

// AcquireSources ensures every source artifact in set passes content
// validation. Files that stay invalid after the download pass are deleted so
// the next run re-fetches them.
func (o *Orchestrator) AcquireSources(ctx context.Context, set AssetSet) (bool, error) {
	return o.acquire(ctx, set, ContentHash, kindSource)
}

// acquire runs the shared algorithm: checkpoint, fetch invalid entries,
// re-validate everything, log and clean up, then signal completion. The
// returned error is non-nil only for cancellation; every other failure
// resolves to allValid=false plus log side effects.
func (o *Orchestrator) acquire(ctx context.Context, set AssetSet, strategy Strategy, kind string) (bool, error) {
	if err := o.lifecycle.Checkpoint(ctx); err != nil {
		return false, err
	}

	paths := set.Paths()

	if !o.skipDownload {
		report := o.validator.Partition(paths, strategy)
		o.fetchInvalid(ctx, set, report.Invalid)
		if ctx.Err() != nil {
			return false, apperrors.CanceledError("acquisition canceled", ctx.Err()).
				WithModule("acquire").
				WithField("kind", kind)
		}
	}

	report := o.validator.Partition(paths, strategy)

	for _, path := range report.Valid {
		o.logger.DebugContext(ctx, "validation succeeded",
			logger.String(kind, stemName(path)))
	}
	for _, path := range report.Invalid {
		o.logger.ErrorContext(ctx, "validation failed",
			logger.String(kind, stemName(path)))

		if strategy == ContentHash && o.fs.Exists(path) {
			if err := o.fs.Remove(path); err == nil {
				o.logger.ErrorContext(ctx, "deleted corrupt file",
					logger.String(kind, stemName(path)))
			} else {
				o.logger.WarnContext(ctx, "failed to delete corrupt file",
					logger.String(kind, stemName(path)),
					logger.Error(err))
			}
		}
	}

	o.record(ctx, set, kind, report)

	if report.AllValid() {
		o.lifecycle.Complete()
		return true, nil
	}
	return false, nil
}

// fetchInvalid downloads each invalid asset separately in key order.
// Failures are left for the re-validation pass to report, so one
// undownloadable asset does not block the rest of the set.
func (o *Orchestrator) fetchInvalid(ctx context.Context, set AssetSet, invalid []string) {
	if len(invalid) == 0 {
		return
	}

	missing := make(map[string]struct{}, len(invalid))
	for _, path := range invalid {
		missing[path] = struct{}{}
	}

	for _, key := range set.Keys() {
		asset := set[key]
		if _, ok := missing[asset.Path]; !ok {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		o.batch.DownloadAll(ctx, o.dir, []string{asset.URL})
	}
}

// record journals the post-validation state of every asset in the set.
func (o *Orchestrator) record(ctx context.Context, set AssetSet, kind string, report ValidationReport) {
	if o.ledger == nil {
		return
	}

	valid := make(map[string]struct{}, len(report.Valid))
	for _, path := range report.Valid {
		valid[path] = struct{}{}
	}

	now := time.Now()
	for _, key := range set.Keys() {
		asset := set[key]
		_, ok := valid[asset.Path]
		entry := ledger.Entry{
			Kind:      kind,
			Name:      key,
			URL:       asset.URL,
			Path:      asset.Path,
			SizeBytes: o.fs.Size(asset.Path),
			Valid:     ok,
			At:        now,
		}
		if err := o.ledger.Record(ctx, entry); err != nil {
			o.logger.WarnContext(ctx, "failed to record acquisition",
				logger.String("name", key),
				logger.Error(err))
		}
	}
}

// stemName returns the base name without its extension, the identifier used
// in validation logs.
func stemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
