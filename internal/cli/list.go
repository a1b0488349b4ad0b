package cli

import (
	"github.com/spf13/cobra"

	"github.com/samir-abis/facefusion/internal/acquire"
	"github.com/samir-abis/facefusion/internal/config"
	"github.com/samir-abis/facefusion/internal/ui"
)

func newListCmd(ro *RootOpts) *cobra.Command {
	var showURLs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manifest sets and their assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(ro)
			if err != nil {
				return err
			}
			runList(ui.NewPrinter(cmd.OutOrStdout()), manifest, showURLs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showURLs, "urls", false, "Show download URLs instead of local paths")
	return cmd
}

func runList(printer *ui.Printer, manifest *config.Manifest, showURLs bool) {
	printer.PrintLine("directory: %s", manifest.DownloadDir)

	for _, set := range manifest.Sets {
		printer.PrintLine("")
		printer.PrintHeader(set.Name)

		hashes := set.HashSet(manifest.DownloadDir)
		sources := set.SourceSet(manifest.DownloadDir)
		width := ui.Widest(append(hashes.Keys(), sources.Keys()...))

		printAssetRows(printer, hashes, "hash", width, showURLs)
		printAssetRows(printer, sources, "source", width, showURLs)
	}
}

func printAssetRows(printer *ui.Printer, set acquire.AssetSet, kind string, width int, showURLs bool) {
	for _, key := range set.Keys() {
		asset := set[key]
		target := asset.Path
		if showURLs {
			target = asset.URL
		}
		printer.PrintLine("  %s  %s  %s", ui.Pad(kind, 6), ui.Pad(key, width), target)
	}
}
