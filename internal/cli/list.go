package cli

import (
	"fmt"
	"strings"

	"canopy/internal/model"
	"canopy/internal/store"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var collectionID string
	var starred bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections, or one collection's tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return err
			}

			if starred {
				for _, d := range db.StarredDocuments() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d.ID, d.Title)
				}
				return nil
			}

			if strings.TrimSpace(collectionID) == "" {
				for _, c := range db.SortedCollections() {
					access := "private"
					if c.DefaultAccess != nil {
						access = strings.TrimSpace(*c.DefaultAccess)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", c.ID, c.Name, access)
				}
				return nil
			}

			c, ok := db.FindCollection(collectionID)
			if !ok {
				return fmt.Errorf("collection not found: %s", collectionID)
			}
			printTree(cmd, db, c, nil, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&collectionID, "collection", "", "Collection to list as a tree")
	cmd.Flags().BoolVar(&starred, "starred", false, "List starred documents across collections")
	return cmd
}

func printTree(cmd *cobra.Command, db *store.DB, c *model.Collection, parentID *string, depth int) {
	var docs []model.Document
	if parentID == nil {
		docs = append(docs, db.RootDocuments(c.ID)...)
	} else {
		docs = append(docs, db.ChildrenOf(*parentID)...)
	}
	store.SortDocumentsBySpec(docs, c.Sort)
	for _, d := range docs {
		star := ""
		if d.Starred {
			star = " ★"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s%s\n", strings.Repeat("  ", depth), d.ID, d.Title, star)
		id := d.ID
		printTree(cmd, db, c, &id, depth+1)
	}
}
