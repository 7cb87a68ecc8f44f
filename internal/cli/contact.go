package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mynote-cli/internal/api"
)

func newContactCmd(app *App) *cobra.Command {
	var name, email, message string

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || message == "" {
				return errors.New("--name, --email and --message are required")
			}
			err := app.client.SendContact(cmd.Context(), api.ContactRequest{
				Name:    name,
				Email:   email,
				Message: message,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "message sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your name")
	cmd.Flags().StringVar(&email, "email", "", "Reply-to email address")
	cmd.Flags().StringVar(&message, "message", "", "Message body")
	return cmd
}
