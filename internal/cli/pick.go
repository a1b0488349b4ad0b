package cli

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/samir-abis/facefusion/internal/config"
)

func newPickCmd(ro *RootOpts) *cobra.Command {
	opts := config.DefaultOptions()
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick an asset set interactively, then fetch it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(ro)
			if err != nil {
				return err
			}

			manifest, err := loadManifest(ro)
			if err != nil {
				return err
			}

			set, err := promptSetSelection(manifest)
			if err != nil {
				return err
			}

			return runFetch(cmd.Context(), log, ro, manifest.DownloadDir, []config.SetConfig{set}, opts, ledgerPath)
		},
	}

	addFetchFlags(cmd, &opts, &ledgerPath)
	return cmd
}

// promptSetSelection renders the interactive selector over manifest sets.
func promptSetSelection(manifest *config.Manifest) (config.SetConfig, error) {
	if len(manifest.Sets) == 0 {
		return config.SetConfig{}, errors.New("manifest has no asset sets")
	}

	prompt := promptui.Select{
		Label:             "Select an asset set",
		Items:             formatSetItems(manifest.Sets),
		Size:              10,
		HideHelp:          false,
		StartInSearchMode: false,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▶ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✅ {{ . | green }}",
			Help:     "{{ \"Navigate:\" | faint }} {{ .NextKey }} {{ .PrevKey }} {{ .PageDownKey }} {{ .PageUpKey }} {{ \"|\" | faint }} {{ \"Exit:\" | faint }} Ctrl + C",
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return config.SetConfig{}, err
	}

	if index < 0 || index >= len(manifest.Sets) {
		return config.SetConfig{}, errors.New("invalid selection")
	}
	return manifest.Sets[index], nil
}

// formatSetItems aligns set names so the asset counts line up.
func formatSetItems(sets []config.SetConfig) []string {
	maxWidth := 0
	for _, set := range sets {
		if width := runewidth.StringWidth(set.Name); width > maxWidth {
			maxWidth = width
		}
	}

	items := make([]string, 0, len(sets))
	for _, set := range sets {
		name := runewidth.FillRight(set.Name, maxWidth)
		items = append(items, fmt.Sprintf("%s  %d assets", name, len(set.Sources)))
	}
	return items
}
