package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canopy/internal/mutate"
	"canopy/internal/perm"

	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var inCollection string
	var parentID string
	var text string

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a document in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return err
			}

			collectionID := strings.TrimSpace(inCollection)
			c, ok := db.FindCollection(collectionID)
			if !ok {
				return fmt.Errorf("collection not found: %s", collectionID)
			}
			if !perm.ForCollection(db, db.CurrentUserID, c).CreateDocument {
				return fmt.Errorf("not allowed to create documents in %q", c.Name)
			}

			var parent *string
			if pid := strings.TrimSpace(parentID); pid != "" {
				parent = &pid
			}

			doc, err := mutate.CreateDocument(db, c.ID, parent, args[0], text, time.Now().UTC())
			if err != nil {
				return err
			}
			if err := s.SaveSQLite(context.Background(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s in %s.\n", doc.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&inCollection, "in", "", "Collection to create the document in")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent document (default: collection root)")
	cmd.Flags().StringVar(&text, "text", "", "Initial markdown body")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
