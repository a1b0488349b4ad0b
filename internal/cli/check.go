package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/samir-abis/facefusion/internal/acquire"
	"github.com/samir-abis/facefusion/internal/config"
	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/ui"
)

func newCheckCmd(ro *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [set...]",
		Short: "Report local asset validity without downloading or deleting",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(ro)
			if err != nil {
				return err
			}

			sets, err := selectSets(manifest, args)
			if err != nil {
				return err
			}

			return runCheck(ui.NewPrinter(cmd.OutOrStdout()), manifest.DownloadDir, sets)
		},
	}
	return cmd
}

// runCheck renders one validity line per asset. Unlike fetch --skip-download
// it never touches the filesystem beyond reading, so corrupt files survive
// for inspection.
func runCheck(printer *ui.Printer, dir string, sets []config.SetConfig) error {
	validator := acquire.NewValidator()

	var failed []string
	for i, set := range sets {
		if i > 0 {
			printer.PrintLine("")
		}
		printer.PrintHeader(set.Name)

		hashes := set.HashSet(dir)
		sources := set.SourceSet(dir)
		width := ui.Widest(append(hashes.Keys(), sources.Keys()...))

		ok := printSetValidity(printer, validator, hashes, acquire.ExistenceOnly, "hash", width)
		if !printSetValidity(printer, validator, sources, acquire.ContentHash, "source", width) {
			ok = false
		}

		if !ok {
			failed = append(failed, set.Name)
		}
	}

	if len(failed) > 0 {
		return apperrors.ValidationError(apperrors.CodeValidationGeneric,
			"invalid asset sets: "+strings.Join(failed, ", "), nil).
			WithModule("cli").
			WithOperation("check")
	}
	return nil
}

func printSetValidity(printer *ui.Printer, validator *acquire.Validator, set acquire.AssetSet, strategy acquire.Strategy, kind string, width int) bool {
	report := validator.Partition(set.Paths(), strategy)

	valid := make(map[string]bool, len(report.Valid))
	for _, path := range report.Valid {
		valid[path] = true
	}

	for _, key := range set.Keys() {
		printer.PrintAssetStatus(ui.Pad(key, width)+" "+kind, valid[set[key].Path])
	}
	return report.AllValid()
}
