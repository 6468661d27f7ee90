package cli

import (
	"os"
	"strings"

	"canopy/internal/store"
	"canopy/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir    string
	UserID string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "canopy",
		Short:        "Keyboard-driven navigation tree for document collections",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive tree
  canopy

  # Scriptable commands
  canopy list
  canopy new "Meeting notes" --in col-abc123
  canopy move doc-x7k2m3pq --to col-abc123 --index 0
  canopy star doc-x7k2m3pq

  # Serve the tree over MCP (stdio)
  canopy mcp
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CANOPY_DIR", ""), "Path to the workspace dir (default: discover .canopy upward from the cwd)")
	cmd.PersistentFlags().StringVar(&app.UserID, "user", envOr("CANOPY_USER", ""), "User id (overrides currentUserId in the workspace)")

	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newStarCmd(app))
	cmd.AddCommand(newMCPCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s.Dir, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	if u := strings.TrimSpace(app.UserID); u != "" {
		db.CurrentUserID = u
	}
	return db, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
