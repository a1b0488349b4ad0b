package cli

import (
	"context"

	"github.com/spf13/cobra"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/integrity"
	"github.com/samir-abis/facefusion/internal/logger"
)

func newSealCmd(ro *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal <file>...",
		Short: "Write companion hash records for local files",
		Long: "Seal computes the content hash of each file and writes it to the\n" +
			"companion record the validator checks, marking the current bytes as the\n" +
			"expected ones. Existing records are overwritten.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(ro)
			if err != nil {
				return err
			}
			return runSeal(cmd.Context(), log, args)
		},
	}
	return cmd
}

func runSeal(ctx context.Context, log logger.Logger, paths []string) error {
	fs := fsys.OS{}

	for _, path := range paths {
		if !fs.Exists(path) {
			return apperrors.ValidationError(apperrors.CodeValidationGeneric, "file does not exist: "+path, nil).
				WithModule("cli").
				WithOperation("seal")
		}

		recordPath, err := integrity.WriteRecord(fs, path)
		if err != nil {
			return err
		}

		log.InfoContext(ctx, "wrote hash record",
			logger.String("file", path),
			logger.String("record", recordPath))
	}
	return nil
}
