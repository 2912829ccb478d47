package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory-catalog/internal/app"
	"inventory-catalog/internal/config"
	"inventory-catalog/internal/logging"
)

// cli carries what every subcommand shares once the root pre-run has wired it.
type cli struct {
	fs        afero.Fs
	out       io.Writer
	tokenFile string

	apiBase string
	token   string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
}

func newRootCmd() *cobra.Command {
	return newRoot(afero.NewOsFs(), os.Stdout)
}

func newRoot(fs afero.Fs, out io.Writer) *cobra.Command {
	c := &cli{fs: fs, out: out}

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Manage the inventory catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.teardown()
		},
	}
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.apiBase, "api", "", "catalog API base URL (default $CATALOG_API_BASE)")
	flags.StringVar(&c.token, "token", "", "bearer token (default $CATALOG_TOKEN or the saved login)")
	flags.StringVar(&c.tokenFile, "token-file", defaultTokenFile(), "where login keeps the token")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log requests and store activity")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newProductsCmd(c),
		newPriceListCmd(c),
		newSoldCmd(c),
		newWatchCmd(c),
	)
	return root
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".catalogctl-token"
	}
	return filepath.Join(dir, "catalogctl", "token")
}

func (c *cli) setup() error {
	c.cfg = config.LoadConfig()

	level := c.cfg.LogLevel
	if c.verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	c.logger = logging.Init(logging.Options{Mode: c.cfg.LogMode, Level: level, Filename: c.cfg.LogFile})
	if c.cfg.EnvFileErr != nil {
		zap.S().Warnw("env_file_unreadable", "error", c.cfg.EnvFileErr)
	}

	if c.apiBase != "" {
		c.cfg.APIBase = c.apiBase
	}
	switch {
	case c.token != "":
		c.cfg.Token = c.token
	case c.cfg.Token == "":
		c.cfg.Token = c.savedToken()
	}

	a, err := app.New(c.cfg, app.Options{FS: c.fs})
	if err != nil {
		return errors.Wrap(err, "start catalog")
	}
	c.app = a
	return nil
}

func (c *cli) teardown() {
	if c.app != nil {
		c.app.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *cli) savedToken() string {
	b, err := afero.ReadFile(c.fs, c.tokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (c *cli) saveToken(token string) error {
	if err := c.fs.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	return errors.Wrap(afero.WriteFile(c.fs, c.tokenFile, []byte(token+"\n"), 0o600), "save token")
}
