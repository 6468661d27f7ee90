package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canopy/internal/drag"
	"canopy/internal/mutate"
	"canopy/internal/perm"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var toCollection string
	var parentID string
	var index int
	var confirm bool

	cmd := &cobra.Command{
		Use:   "move <document-id>",
		Short: "Move a document to a new collection, parent, or position",
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

			collectionID := strings.TrimSpace(toCollection)
			if collectionID == "" {
				collectionID = doc.CollectionID
			}
			target, ok := db.FindCollection(collectionID)
			if !ok {
				return fmt.Errorf("collection not found: %s", collectionID)
			}
			origin, ok := db.FindCollection(doc.CollectionID)
			if !ok {
				return fmt.Errorf("origin collection not found: %s", doc.CollectionID)
			}
			if !perm.CanMoveBetween(db, db.CurrentUserID, origin, target) {
				return fmt.Errorf("not allowed to move %s from %q to %q", doc.ID, origin.Name, target.Name)
			}

			intent := mutate.MoveIntent{
				DocumentID:   doc.ID,
				CollectionID: target.ID,
			}
			if pid := strings.TrimSpace(parentID); pid != "" {
				if _, ok := db.FindDocument(pid); !ok {
					return fmt.Errorf("parent document not found: %s", pid)
				}
				intent.ParentID = &pid
			}
			if cmd.Flags().Changed("index") {
				idx := index
				intent.Index = &idx
			}

			// The non-interactive analogue of the boundary confirmation modal.
			if perm.BoundaryCrossed(origin, target) && !confirm {
				return fmt.Errorf("moving %s from %q to %q changes who can see it; pass --confirm to proceed",
					doc.ID, origin.Name, target.Name)
			}

			payload, err := drag.CapturePayload(db, doc.ID)
			if err != nil {
				return err
			}

			exec := &mutate.Executor{
				DB:      db,
				Persist: mutate.PersistFunc(s.SaveSQLite),
				Now:     func() time.Time { return time.Now().UTC() },
			}
			changed, err := exec.Execute(context.Background(), intent, payload)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "No change: the document is already there.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s.\n", doc.ID, target.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&toCollection, "to", "", "Target collection (default: current)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Target parent document (default: collection root)")
	cmd.Flags().IntVar(&index, "index", 0, "Position among target siblings (0-based; default: append)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm a move across a visibility boundary")
	return cmd
}
