package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trashmail/internal/app"
	"trashmail/internal/domain"
	"trashmail/internal/logging"
)

// errSecondFactor is returned when the server accepted the credentials but
// wants a second factor.
var errSecondFactor = errors.New("login requires two-factor authentication, which this client does not support")

// cli carries the persistent flags and the wired app for one invocation.
type cli struct {
	home       string
	apiURL     string
	lang       string
	passphrase string
	verbose    bool

	wire *app.Wire
}

// Execute runs the trashmail CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "trashmail",
		Short:        "TrashMail disposable address CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.wire != nil {
				_ = c.wire.Log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", "", "config dir (default ~/.trashmail)")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "API base URL (default https://trashmail.com)")
	root.PersistentFlags().StringVar(&c.lang, "lang", "", "language code sent with requests (default en)")
	root.PersistentFlags().StringVarP(&c.passphrase, "passphrase", "p", "", "passphrase protecting the stored session")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		c.authMethodsCmd(),
		c.loginCmd(),
		c.listCmd(),
		c.createCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.configCmd(),
		c.demoCmd(),
	)
	return root
}

func (c *cli) setup() error {
	if c.home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.home = filepath.Join(dir, ".trashmail")
	}
	if err := os.MkdirAll(c.home, 0o700); err != nil {
		return err
	}

	cfg, err := app.LoadConfig(c.home)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.BaseURL = c.apiURL
	}
	if c.lang != "" {
		cfg.Lang = c.lang
	}

	log, err := logging.New(logging.Options{Verbose: c.verbose, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	w, err := app.NewWire(cfg, log)
	if err != nil {
		return err
	}
	c.wire = w
	return c.restoreSession()
}

// restoreSession loads the encrypted session, if a passphrase was given and
// one was saved for this server.
func (c *cli) restoreSession() error {
	if c.passphrase == "" {
		return nil
	}
	rec, ok, err := c.wire.Sessions.LoadSession(c.passphrase)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	if !c.wire.Auth.Restore(rec) {
		c.wire.Log.Debug("stored session not used",
			zap.String("stored_server", rec.ServerURL),
			zap.String("server", c.wire.API.BaseURL()))
	}
	return nil
}

// authenticate logs in with username and secret, choosing the token flow
// when secret is a personal access token.
func (c *cli) authenticate(ctx context.Context, username domain.Username, secret string) error {
	var (
		ok  bool
		err error
	)
	if domain.IsPAT(secret) {
		ok, err = c.wire.Auth.LoginWithPAT(ctx, username, secret)
	} else {
		ok, err = c.wire.Auth.Login(ctx, username, secret)
	}
	if err != nil {
		return err
	}
	if !ok {
		return errSecondFactor
	}
	return c.wire.Accounts.SaveAccountProfile(domain.AccountProfile{
		ServerURL: c.wire.API.BaseURL(),
		Username:  username,
		LastLogin: time.Now().UTC().Unix(),
	})
}

// ensureLoggedIn uses the restored session, or logs in with credentials
// from the environment or config file.
func (c *cli) ensureLoggedIn(ctx context.Context) error {
	if c.wire.Auth.IsAuthenticated() {
		return nil
	}
	cfg := c.wire.Config
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("not logged in: run `trashmail login -p <passphrase>` or set %s and %s", app.EnvUser, app.EnvPass)
	}
	return c.authenticate(ctx, domain.Username(cfg.Username), cfg.Password)
}

// saveSession persists the current session when a passphrase was given.
func (c *cli) saveSession() (bool, error) {
	if c.passphrase == "" || !c.wire.Auth.IsAuthenticated() {
		return false, nil
	}
	if err := c.wire.Sessions.SaveSession(c.passphrase, c.wire.Auth.Snapshot()); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

// lastUsername returns the username remembered for the current server.
func (c *cli) lastUsername() domain.Username {
	if c.wire.Config.Username != "" {
		return domain.Username(c.wire.Config.Username)
	}
	p, ok, err := c.wire.Accounts.LoadAccountProfile(c.wire.API.BaseURL())
	if err != nil {
		c.wire.Log.Debug("load account profile", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return p.Username
}
