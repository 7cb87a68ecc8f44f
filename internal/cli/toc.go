package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynote-cli/internal/model"
	"mynote-cli/internal/mutate"
)

func newTocCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Edit a note's table of contents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <seq-no> <toc-id> <new-title>",
		Short: "Rename a TOC entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editDetail(cmd, args[0], args[1], "toc id",
				func(noteID, tocID int64) error {
					return mutate.RenameTocTitle(cmd.Context(), app.store, app.client, noteID, tocID, args[2])
				})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rebody <seq-no> <toc-id> <new-body>",
		Short: "Rewrite a TOC entry's body text",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editDetail(cmd, args[0], args[1], "toc id",
				func(noteID, tocID int64) error {
					return mutate.UpdateTocBody(cmd.Context(), app.store, app.client, noteID, tocID, args[2])
				})
		},
	})

	return cmd
}

func newPageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Edit a note's pages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "text <seq-no> <page-id> <new-text>",
		Short: "Rewrite a page's extracted text",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editDetail(cmd, args[0], args[1], "page id",
				func(noteID, pageID int64) error {
					return mutate.UpdatePageText(cmd.Context(), app.store, app.client, noteID, pageID, args[2])
				})
		},
	})

	return cmd
}

// editDetail parses a seq-no plus a child id, seeds the detail cache so the
// optimistic edit has something local to rewrite, and runs the mutation.
func (app *App) editDetail(cmd *cobra.Command, seqArg, idArg, idWhat string, fn func(noteID, childID int64) error) error {
	seqNo, err := parseID(seqArg, "note number")
	if err != nil {
		return err
	}
	childID, err := parseID(idArg, idWhat)
	if err != nil {
		return err
	}
	if err := app.requireSession(); err != nil {
		return err
	}
	var detail model.NoteDetail
	if detail, err = app.refresher.FetchDetail(cmd.Context(), seqNo); err != nil {
		return app.finish(err)
	}
	err = fn(detail.ID, childID)
	if mutate.Skipped(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
		return nil
	}
	if err != nil {
		return app.finish(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "updated")
	return nil
}
