package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mynote-cli/internal/model"
	"mynote-cli/internal/mutate"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesShowCmd(app))
	cmd.AddCommand(newNotesRenameCmd(app))
	cmd.AddCommand(newNotesDescribeCmd(app))
	cmd.AddCommand(newNotesDeleteCmd(app))
	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, optionally for one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			byCategory := app.store.NotesByCategory()

			var out []model.NoteSummary
			if categoryID != 0 {
				out = append(out, byCategory[categoryID]...)
			} else {
				for _, list := range byCategory {
					out = append(out, list...)
				}
			}
			sort.Slice(out, func(i, j int) bool { return out[i].UserSeqNo < out[j].UserSeqNo })
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "Only notes in this category")
	return cmd
}

func newNotesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <seq-no>",
		Short: "Show a note's detail (TOC and pages included)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqNo, err := parseID(args[0], "note number")
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			detail, err := app.refresher.FetchDetail(cmd.Context(), seqNo)
			if err != nil {
				return app.finish(err)
			}
			return writeOut(cmd, app, detail)
		},
	}
}

func newNotesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <seq-no> <new-title>",
		Short: "Rename a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqNo, err := parseID(args[0], "note number")
			if err != nil {
				return err
			}
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			categoryID, ok := findNoteCategory(app.store.NotesByCategory(), seqNo)
			if !ok {
				return fmt.Errorf("no note with number %d", seqNo)
			}
			err = mutate.RenameNoteTitle(cmd.Context(), app.store, app.client, categoryID, seqNo, args[1])
			if mutate.Skipped(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
				return nil
			}
			if err != nil {
				return app.finish(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d renamed to %q\n", seqNo, args[1])
			return nil
		},
	}
}

func newNotesDescribeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <seq-no> <description>",
		Short: "Set a note's description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqNo, err := parseID(args[0], "note number")
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			if _, err := app.refresher.FetchDetail(cmd.Context(), seqNo); err != nil {
				return app.finish(err)
			}
			err = mutate.UpdateNoteDescription(cmd.Context(), app.store, app.client, seqNo, args[1])
			if mutate.Skipped(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
				return nil
			}
			if err != nil {
				return app.finish(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d description updated\n", seqNo)
			return nil
		},
	}
}

func newNotesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <seq-no>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqNo, err := parseID(args[0], "note number")
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("confirm the deletion with --yes")
			}
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			err = mutate.DeleteNote(cmd.Context(), app.store, app.client, seqNo)
			if mutate.Skipped(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "no such note")
				return nil
			}
			if err != nil {
				return app.finish(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d deleted\n", seqNo)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func findNoteCategory(byCategory map[int64][]model.NoteSummary, userSeqNo int64) (int64, bool) {
	for categoryID, list := range byCategory {
		for _, n := range list {
			if n.UserSeqNo == userSeqNo {
				return categoryID, true
			}
		}
	}
	return 0, false
}
