package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mynote-cli/internal/api"
	"mynote-cli/internal/cache"
	"mynote-cli/internal/config"
	"mynote-cli/internal/format"
	"mynote-cli/internal/logger"
	"mynote-cli/internal/nav"
	"mynote-cli/internal/store"
	"mynote-cli/internal/tui"
)

type App struct {
	BaseURL    string
	PrettyJSON bool

	cfg       *config.Config
	session   *config.Session
	store     *store.Store
	client    *api.Client
	cache     *cache.Cache
	refresher *nav.Refresher
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mynote",
		Short:        "MyNote terminal client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  mynote

  # Scriptable commands
  mynote login --id alice
  mynote notes list
  mynote upload --file lecture.pdf --title "Week 3" --category 2

  # Direct note lookup (shortcut for: mynote notes show <seq-no>)
  mynote 12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("MYNOTE_BASE_URL", ""), "Backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newRefreshCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newTocCmd(app))
	cmd.AddCommand(newPageCmd(app))
	cmd.AddCommand(newUploadCmd(app))
	cmd.AddCommand(newContactCmd(app))
	cmd.AddCommand(newAccountCmd(app))

	return cmd
}

func (app *App) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if app.BaseURL != "" {
		cfg.BaseURL = app.BaseURL
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}

	session, err := config.LoadSession()
	if err != nil {
		return err
	}

	app.cfg = cfg
	app.session = session
	app.store = store.New()
	app.client = api.New(cfg.BaseURL, cfg.Timeout, func() string { return app.session.Token })

	if cfg.CacheEnabled {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		c, err := cache.Open(filepath.Join(dir, "cache.db"))
		if err != nil {
			// A broken cache must never block the client; run without it.
			logger.Warn("cache unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			app.cache = c
		}
	}

	app.refresher = &nav.Refresher{API: app.client, Store: app.store}
	if app.cache != nil {
		app.refresher.Cache = app.cache
	}
	return nil
}

func (app *App) requireSession() error {
	if !app.session.LoggedIn() {
		return errors.New("not logged in; run `mynote login`")
	}
	u := app.session.User()
	app.store.SetUser(&u, app.session.Role)
	return nil
}

// loadNav seeds the store with a fresh nav snapshot (and optionally TOC)
// before a command that reads or mutates it.
func (app *App) loadNav(ctx context.Context, withToc bool) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	return app.refresher.Refresh(ctx, nav.Options{
		UserID: app.session.UserID,
		Nav:    true,
		Toc:    withToc,
	})
}

// finish maps session expiry to a fresh-login hint and clears the stale
// credentials so the next invocation starts clean.
func (app *App) finish(err error) error {
	if errors.Is(err, api.ErrSessionExpired) {
		_ = config.ClearSession()
		app.store.ResetAll()
		return errors.New("session expired; run `mynote login` again")
	}
	return err
}

func runTUI(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	if err := app.refresher.LoadCached(); err != nil {
		logger.Warn("cache load failed", map[string]interface{}{"error": err.Error()})
	}
	// Keep log lines off the alternate screen.
	logger.SetOutput(io.Discard)
	return tui.Run(app.store, app.client, app.refresher, app.session.UserID)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}
