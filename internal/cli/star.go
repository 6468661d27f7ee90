package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newStarCmd(app *App) *cobra.Command {
	var unstar bool

	cmd := &cobra.Command{
		Use:   "star <document-id>",
		Short: "Star or unstar a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return err
			}

			documentID := strings.TrimSpace(args[0])
			doc, ok := db.FindDocument(documentID)
			if !ok {
				return fmt.Errorf("document not found: %s", documentID)
			}

			doc.Starred = !unstar
			doc.UpdatedAt = time.Now().UTC()
			if err := s.Save(context.Background(), db); err != nil {
				return err
			}

			if doc.Starred {
				fmt.Fprintf(cmd.OutOrStdout(), "Starred %s.\n", doc.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Unstarred %s.\n", doc.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unstar, "remove", false, "Remove the star instead")
	return cmd
}
