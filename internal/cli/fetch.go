package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samir-abis/facefusion/internal/acquire"
	"github.com/samir-abis/facefusion/internal/config"
	"github.com/samir-abis/facefusion/internal/download"
	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/ledger"
	"github.com/samir-abis/facefusion/internal/logger"
	"github.com/samir-abis/facefusion/internal/progress"
)

const (
	lockTimeout       = 5 * time.Second
	defaultLedgerName = ".acquisitions.db"
	ledgerOff         = "off"
)

func newFetchCmd(ro *RootOpts) *cobra.Command {
	opts := config.DefaultOptions()
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "fetch [set...]",
		Short: "Download and validate asset sets",
		Long: "Fetch ensures every named asset set (default: all) is present and valid\n" +
			"locally. Companion hash records are acquired first; sources are only\n" +
			"fetched once their records are in place. Corrupt sources are deleted so\n" +
			"the next run re-fetches them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(ro)
			if err != nil {
				return err
			}

			manifest, err := loadManifest(ro)
			if err != nil {
				return err
			}

			sets, err := selectSets(manifest, args)
			if err != nil {
				return err
			}

			return runFetch(cmd.Context(), log, ro, manifest.DownloadDir, sets, opts, ledgerPath)
		},
	}

	addFetchFlags(cmd, &opts, &ledgerPath)
	return cmd
}

// addFetchFlags registers the acquisition knobs shared by fetch and pick.
func addFetchFlags(cmd *cobra.Command, opts *config.Options, ledgerPath *string) {
	cmd.Flags().BoolVar(&opts.SkipDownload, "skip-download", false, "Validate and clean up without fetching")
	cmd.Flags().IntVar(&opts.MaxRetries, "retries", opts.MaxRetries, "Download attempts per asset")
	cmd.Flags().StringVar(ledgerPath, "ledger", "", `Acquisition ledger path (default <dir>/`+defaultLedgerName+`, "off" disables)`)
}

// runFetch acquires every set in order. The asset directory is locked for the
// whole run so concurrent invocations do not race on partial files.
func runFetch(ctx context.Context, log logger.Logger, ro *RootOpts, dir string, sets []config.SetConfig, opts config.Options, ledgerPath string) error {
	opts = opts.Normalized()

	fs := fsys.OS{}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to create asset directory", err).
			WithModule("cli").
			WithOperation("fetch").
			WithField("path", dir)
	}

	lock, err := fsys.LockDir(dir, lockTimeout)
	if err != nil {
		return apperrors.SystemError(apperrors.CodeSystemGeneric, "asset directory is locked by another run", err).
			WithModule("cli").
			WithOperation("fetch").
			WithField("path", dir)
	}
	defer lock.Unlock()

	orchOpts := []acquire.OrchestratorOption{
		acquire.WithSkipDownload(opts.SkipDownload),
	}

	if ledgerPath != ledgerOff {
		path := ledgerPath
		if path == "" {
			path = filepath.Join(dir, defaultLedgerName)
		}
		store, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		orchOpts = append(orchOpts, acquire.WithLedger(store))
	}

	batch, err := buildBatch(log, ro, opts)
	if err != nil {
		return err
	}
	orchOpts = append(orchOpts, acquire.WithBatch(batch))

	orch, err := acquire.NewOrchestrator(dir, log, orchOpts...)
	if err != nil {
		return err
	}

	var failed []string
	for _, set := range sets {
		log.InfoContext(ctx, "acquiring asset set", logger.String("set", set.Name))

		ok, err := orch.AcquireHashes(ctx, set.HashSet(dir))
		if err != nil {
			return err
		}
		if ok {
			ok, err = orch.AcquireSources(ctx, set.SourceSet(dir))
			if err != nil {
				return err
			}
		}
		if !ok {
			failed = append(failed, set.Name)
		}
	}

	if len(failed) > 0 {
		appErr := apperrors.ValidationError(apperrors.CodeValidationGeneric,
			"asset validation failed for "+strings.Join(failed, ", "), nil).
			WithModule("cli").
			WithOperation("fetch").
			WithField("sets", len(failed))
		log.ErrorContext(ctx, "acquisition finished with invalid sets", logger.AppErrorFields(appErr)...)
		return appErr
	}

	log.InfoContext(ctx, "all asset sets valid", logger.Int("sets", len(sets)))
	return nil
}

// buildBatch assembles the download pipeline from the CLI options. The size
// cache inside the prober is shared across every set of the run.
func buildBatch(log logger.Logger, ro *RootOpts, opts config.Options) (*download.Batch, error) {
	prober, err := download.NewProber(log,
		download.WithProbeTimeout(opts.ProbeTimeout),
	)
	if err != nil {
		return nil, err
	}

	streamer, err := download.NewStreamer(log,
		download.WithStreamReporter(buildReporter(ro)),
		download.WithStreamTimeout(opts.FetchTimeout),
	)
	if err != nil {
		return nil, err
	}

	return download.NewBatch(log,
		download.WithBatchProber(prober),
		download.WithBatchStreamer(streamer),
		download.WithBatchRetries(opts.MaxRetries),
	)
}

// buildReporter picks the progress rendering for the current terminal. The
// interactive bar needs a TTY; plain console lines work everywhere else.
func buildReporter(ro *RootOpts) progress.Reporter {
	if ro.NoProgress {
		return progress.NopReporter{}
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return progress.NewBarReporter(os.Stderr)
	}
	return progress.NewConsoleReporter(os.Stderr)
}
