package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"mynote-cli/internal/model"
	"mynote-cli/internal/mutate"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage note categories",
	}

	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			cats := app.store.Categories()
			out := make([]model.Category, 0, len(cats))
			for _, c := range cats {
				out = append(out, c)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
			return writeOut(cmd, app, out)
		},
	}
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category-id> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category id")
			if err != nil {
				return err
			}
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			err = mutate.RenameCategory(cmd.Context(), app.store, app.client, id, args[1])
			if mutate.Skipped(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
				return nil
			}
			if err != nil {
				return app.finish(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %d renamed to %q\n", id, args[1])
			return nil
		},
	}
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category and every note in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category id")
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("this deletes the category and all of its notes; confirm with --yes")
			}
			if err := app.finish(app.loadNav(cmd.Context(), false)); err != nil {
				return err
			}
			err = mutate.DeleteCategory(cmd.Context(), app.store, app.client, id)
			if mutate.Skipped(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "no such category")
				return nil
			}
			if err != nil {
				return app.finish(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}
