package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/pamconnect/internal/cliconfig"
	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

var errNoSession = errors.New("no session: run `pamctl login` and export PAMCTL_SESSION_ID and PAMCTL_SESSION_PLAYER")

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"env":        "env",
	"base-url":   "baseurl",
	"timeout":    "timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// cli carries state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type cli struct {
	configFile string
	output     string

	cfg    *cliconfig.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command for pamctl.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "pamctl",
		Short: "pamctl - command line client for PAM player APIs",
		Long: `pamctl talks to a PAM backend as a player: log in, register, read the
wallet balance and profile, and watch a session over time.

Configuration is read from $XDG_CONFIG_HOME/pamctl/config.yaml (or --config),
then PAMCTL_* environment variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file path")
	flags.StringVarP(&c.output, "output", "o", "text", "output format (text, json)")
	flags.String("env", "", "target environment profile")
	flags.String("base-url", "", "PAM base URL, overrides the environment profile")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")

	cmd.AddCommand(newLoginCmd(c))
	cmd.AddCommand(newLogoutCmd(c))
	cmd.AddCommand(newRegisterCmd(c))
	cmd.AddCommand(newBalanceCmd(c))
	cmd.AddCommand(newProfileCmd(c))
	cmd.AddCommand(newWatchCmd(c))
	cmd.AddCommand(newHealthCmd(c))

	return cmd
}

func (c *cli) load(cmd *cobra.Command) error {
	switch c.output {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output format %q", c.output)
	}

	overrides := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	opts := []cliconfig.Option{cliconfig.WithOverrides(overrides)}
	if c.configFile != "" {
		opts = append(opts, cliconfig.WithConfigFile(c.configFile))
	}

	cfg, err := cliconfig.NewLoader(opts...).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.cfg = cfg
	c.logger = cfg.Logger(version, cmd.ErrOrStderr())
	return nil
}

// newClient builds a Client seeded with the configured session, if any.
func (c *cli) newClient(extra ...pamsdk.Option) (*pamsdk.Client, error) {
	env, err := c.cfg.Environment()
	if err != nil {
		return nil, err
	}

	opts := []pamsdk.Option{
		pamsdk.WithTransport(c.cfg.Transport()),
		pamsdk.WithLogger(c.logger),
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, pamsdk.WithUserAgent(c.cfg.UserAgent))
	}
	opts = append(opts, extra...)

	auth := pamsdk.NewAuthenticator(pamsdk.WithAuthenticatorLogger(c.logger))
	if tok, ok := c.cfg.SessionToken(); ok {
		auth.UpdateToken(&tok)
	}

	c.logger.Debug("client ready", "env", env.Name, "base_url", env.BaseURL)
	return pamsdk.NewClient(env, auth, opts...), nil
}

// currentPlayer returns args[0] or the configured session's player.
func (c *cli) currentPlayer(client *pamsdk.Client, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	tok, ok := client.Authenticator().CurrentToken()
	if !ok {
		return "", errNoSession
	}
	return tok.UniversalID, nil
}

// render writes v as indented JSON, or calls text when the output is text.
func (c *cli) render(w io.Writer, v any, text func(io.Writer) error) error {
	if c.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}
