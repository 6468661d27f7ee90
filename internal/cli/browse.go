package cli

import "github.com/spf13/cobra"

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive tree (same as running canopy with no arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}
