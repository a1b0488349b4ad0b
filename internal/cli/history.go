package cli

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/samir-abis/facefusion/internal/ledger"
	"github.com/samir-abis/facefusion/internal/ui"
)

const historyTimeFormat = "2006-01-02 15:04:05"

func newHistoryCmd(ro *RootOpts) *cobra.Command {
	var limit int
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent acquisition ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(ro)
			if err != nil {
				return err
			}

			path := ledgerPath
			if path == "" {
				path = filepath.Join(manifest.DownloadDir, defaultLedgerName)
			}

			store, err := ledger.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			return runHistory(cmd.Context(), ui.NewPrinter(cmd.OutOrStdout()), store, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "Acquisition ledger path (default <dir>/"+defaultLedgerName+")")

	return cmd
}

func runHistory(ctx context.Context, printer *ui.Printer, store ledger.Store, limit int) error {
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		printer.PrintLine("no acquisitions recorded")
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	nameWidth := ui.Widest(names)

	for _, entry := range entries {
		printer.PrintLine("%s  %s  %s  %10s  %s",
			entry.At.Local().Format(historyTimeFormat),
			ui.Pad(entry.Kind, 6),
			ui.Pad(entry.Name, nameWidth),
			humanize.IBytes(uint64(entry.SizeBytes)),
			printer.Mark(entry.Valid))
	}
	return nil
}
