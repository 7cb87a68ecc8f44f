package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mynote-cli/internal/api"
	"mynote-cli/internal/availability"
	"mynote-cli/internal/config"
	"mynote-cli/internal/mutate"
)

func newLoginCmd(app *App) *cobra.Command {
	var loginID, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginID == "" {
				return errors.New("--id is required")
			}
			if password == "" {
				var err error
				password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			raw, err := app.client.Login(cmd.Context(), loginID, password)
			if err != nil {
				return err
			}
			userID, err := raw.UserID.Int64()
			if err != nil {
				return fmt.Errorf("login response: bad userId %q: %w", raw.UserID.String(), err)
			}

			session := &config.Session{
				UserID:   userID,
				UserName: raw.UserName,
				Token:    raw.Token,
				Role:     raw.Role,
			}
			if err := config.SaveSession(session); err != nil {
				return err
			}
			// The client reads the token through app.session, so swap it in
			// before the post-login nav application fires follow-up requests.
			app.session = session

			if err := app.refresher.ApplyLogin(cmd.Context(), raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", raw.UserName)
			return nil
		},
	}

	cmd.Flags().StringVar(&loginID, "id", "", "Login ID (username or email)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session locally and on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.session.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			app.refresher.Logout(cmd.Context())
			if err := config.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.session.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			return writeOut(cmd, app, map[string]any{
				"userId":   app.session.UserID,
				"userName": app.session.UserName,
				"role":     app.session.Role,
			})
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var userName, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userName == "" || email == "" {
				return errors.New("--username and --email are required")
			}
			if password == "" {
				var err error
				password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			checker := availability.New(app.client)
			checks := []struct {
				field availability.Field
				value string
			}{
				{availability.FieldUserName, userName},
				{availability.FieldEmail, email},
			}
			for _, c := range checks {
				res, ok, err := checker.Check(cmd.Context(), c.field, c.value)
				if err != nil {
					return err
				}
				if ok && !res.Available {
					return fmt.Errorf("%s %q is already taken", c.field, c.value)
				}
			}

			err := app.client.Register(cmd.Context(), api.RegisterRequest{
				UserName: userName,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "account created; run `mynote login`")
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "User name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account and all its notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete the account without --yes")
			}
			if err := app.finish(mutate.DeleteAccount(cmd.Context(), app.store, app.client)); err != nil {
				return err
			}
			if app.cache != nil {
				_ = app.cache.Clear()
			}
			if err := config.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "account deleted")
			return nil
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	cmd.AddCommand(del)
	return cmd
}

func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; pass --password")
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	pass := strings.TrimSpace(string(b))
	if pass == "" {
		return "", errors.New("empty password")
	}
	return pass, nil
}
