package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samir-abis/facefusion/internal/config"
	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/logger"
)

// RootOpts holds global CLI options shared by every subcommand.
type RootOpts struct {
	Manifest   string
	Dir        string
	LogLevel   string
	JSONLogs   bool
	NoProgress bool
}

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ro := &RootOpts{}
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := &cobra.Command{
		Use:           "facefusion-assets",
		Short:         "Fetch and validate facefusion model assets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.PersistentFlags().StringVarP(&ro.Manifest, "manifest", "m", "", "Manifest overlay file (YAML), merged over the built-in defaults")
	root.PersistentFlags().StringVarP(&ro.Dir, "dir", "d", "", "Asset directory (overrides the manifest)")
	root.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&ro.JSONLogs, "json-logs", false, "Emit logs as JSON lines")
	root.PersistentFlags().BoolVar(&ro.NoProgress, "no-progress", false, "Disable per-file progress output")

	root.AddCommand(newFetchCmd(ro))
	root.AddCommand(newCheckCmd(ro))
	root.AddCommand(newListCmd(ro))
	root.AddCommand(newPickCmd(ro))
	root.AddCommand(newSealCmd(ro))
	root.AddCommand(newHistoryCmd(ro))
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// signalContext derives a context cancelled on SIGINT or SIGTERM, so a second
// signal kills the process the default way.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

// buildLogger assembles the logger the acquisition pipeline reports through.
// Logs go to stderr so report output on stdout stays machine-readable.
func buildLogger(ro *RootOpts) (logger.Logger, error) {
	level, err := parseLevel(ro.LogLevel)
	if err != nil {
		return nil, err
	}

	if ro.JSONLogs {
		return logger.NewStandardLogger(
			logger.WithLevel(level),
			logger.WithOutput(os.Stderr),
			logger.WithFormatter(&logger.JSONFormatter{}),
		), nil
	}

	return logger.NewColoredLogger(
		logger.WithLevel(level),
		logger.WithOutput(os.Stderr),
	), nil
}

func parseLevel(s string) (logger.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logger.LevelDebug, nil
	case "", "info":
		return logger.LevelInfo, nil
	case "warn", "warning":
		return logger.LevelWarn, nil
	case "error":
		return logger.LevelError, nil
	default:
		return 0, apperrors.ConfigError(apperrors.CodeConfigGeneric, "unknown log level", nil).
			WithModule("cli").
			WithField("level", s)
	}
}

// loadManifest layers an optional overlay file over the embedded defaults and
// applies the --dir override last.
func loadManifest(ro *RootOpts) (*config.Manifest, error) {
	base, err := config.BaseManifest()
	if err != nil {
		return nil, err
	}

	manifests := []*config.Manifest{base}
	if ro.Manifest != "" {
		overlay, err := config.LoadManifest(ro.Manifest)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, overlay)
	}

	merged, err := config.MergeManifests(manifests...)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(ro.Dir) != "" {
		merged.DownloadDir = strings.TrimSpace(ro.Dir)
	}
	return merged, nil
}

// selectSets resolves positional set names against the manifest, defaulting
// to every set when none are named.
func selectSets(manifest *config.Manifest, names []string) ([]config.SetConfig, error) {
	if len(names) == 0 {
		return append([]config.SetConfig(nil), manifest.Sets...), nil
	}

	sets := make([]config.SetConfig, 0, len(names))
	for _, name := range names {
		set, ok := manifest.Set(name)
		if !ok {
			return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "unknown asset set: "+name, nil).
				WithModule("cli").
				WithField("known", strings.Join(manifest.SetNames(), ", "))
		}
		sets = append(sets, set)
	}
	return sets, nil
}
