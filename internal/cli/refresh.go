package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynote-cli/internal/nav"
)

func newRefreshCmd(app *App) *cobra.Command {
	var withToc bool
	var prefetch int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the local navigation snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			err := app.refresher.Refresh(cmd.Context(), nav.Options{
				UserID: app.session.UserID,
				Nav:    true,
				Toc:    withToc,
			})
			if err != nil {
				return app.finish(err)
			}
			if prefetch > 0 {
				if err := app.refresher.PrefetchDetails(cmd.Context(), prefetch); err != nil {
					return app.finish(err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "refreshed: %d categories, %d notes\n",
				len(app.store.Categories()), countNotes(app))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withToc, "toc", false, "Also refresh the TOC map")
	cmd.Flags().IntVar(&prefetch, "prefetch", 0, "Prefetch note details with this many parallel fetches")
	return cmd
}

func countNotes(app *App) int {
	n := 0
	for _, list := range app.store.NotesByCategory() {
		n += len(list)
	}
	return n
}
