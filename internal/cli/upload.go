package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mynote-cli/internal/nav"
	"mynote-cli/internal/upload"
)

func newUploadCmd(app *App) *cobra.Command {
	var (
		file        string
		title       string
		categoryID  int64
		newCategory string
		simple      bool
		tocPrompt   string
		pagePrompt  string
		savePrompts bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a PDF and follow the conversion progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			if categoryID != 0 && newCategory != "" {
				return errors.New("pass either --category or --new-category, not both")
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			if title == "" {
				base := filepath.Base(file)
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}

			req := upload.Request{
				File:          f,
				FileName:      filepath.Base(file),
				NoteTitle:     title,
				TocPrompt:     tocPrompt,
				PagePrompt:    pagePrompt,
				SaveAsDefault: savePrompts,
				Mode:          upload.ModeFull,
			}
			if simple {
				req.Mode = upload.ModeSimple
			}
			if newCategory != "" {
				req.CreateNewCategory = true
				req.NewCategoryName = newCategory
			} else {
				req.ExistingCategoryID = categoryID
			}

			var failed *upload.ProcessEvent
			err = upload.Start(cmd.Context(), app.client, req, func(evt upload.ProcessEvent) {
				if evt.Err() {
					e := evt
					failed = &e
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", evt.Message)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", evt.Code, evt.Message)
			})
			if err != nil {
				return app.finish(err)
			}
			if failed != nil {
				return fmt.Errorf("upload failed: %s", failed.Message)
			}

			// The nav snapshot now includes the new note; pull it in so the
			// next command (or cached TUI start) sees it.
			refreshErr := app.refresher.Refresh(cmd.Context(), nav.Options{
				UserID: app.session.UserID,
				Nav:    true,
				Toc:    true,
			})
			if refreshErr != nil {
				return app.finish(refreshErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "upload complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "PDF file to upload")
	cmd.Flags().StringVar(&title, "title", "", "Note title (defaults to the file name)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Existing category id")
	cmd.Flags().StringVar(&newCategory, "new-category", "", "Create this category for the note")
	cmd.Flags().BoolVar(&simple, "simple", false, "Skip OCR (image-only conversion)")
	cmd.Flags().StringVar(&tocPrompt, "toc-prompt", "", "Custom AI prompt for TOC extraction")
	cmd.Flags().StringVar(&pagePrompt, "page-prompt", "", "Custom AI prompt for page analysis")
	cmd.Flags().BoolVar(&savePrompts, "save-prompts", false, "Store the prompts on the category as defaults")
	return cmd
}
