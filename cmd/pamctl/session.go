package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

// credentialFlags are shared by login and watch.
type credentialFlags struct {
	username      string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "player username")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "player password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func (f *credentialFlags) resolve(stdin io.Reader) (string, string, error) {
	if !f.passwordStdin {
		if f.password == "" {
			return "", "", errors.New("a password is required: use --password or --password-stdin")
		}
		return f.username, f.password, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", "", errors.New("empty password on stdin")
	}
	return f.username, password, nil
}

func newLoginCmd(c *cli) *cobra.Command {
	creds := &credentialFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session",
		Long: `Log in as a player and print the new session.

pamctl does not store sessions. In text mode the output is a pair of export
lines, so a shell can pick the session up with:

  eval "$(pamctl login -u jobit11000 --password-stdin)"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := creds.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := c.newClient()
			if err != nil {
				return err
			}

			token, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			c.logger.Info("logged in", "player", token.UniversalID, "session", token.Fingerprint())

			return c.render(cmd.OutOrStdout(), token, func(w io.Writer) error {
				return writeExports(w, token)
			})
		},
	}
	creds.register(cmd)

	return cmd
}

func writeExports(w io.Writer, token pamsdk.SessionToken) error {
	_, err := fmt.Fprintf(w, "export PAMCTL_SESSION_ID=%s\nexport PAMCTL_SESSION_PLAYER=%s\n",
		token.SessionID, token.UniversalID)
	if err != nil {
		return err
	}
	if token.HasToAcceptTC {
		_, err = fmt.Fprintln(w, "# the player must accept the current terms and conditions")
	}
	if err == nil && token.HasToSetPass {
		_, err = fmt.Fprintln(w, "# the player must set a new password")
	}
	return err
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [session-id]",
		Short: "End a session",
		Long:  `End the given session, or the configured session when none is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				err = client.Logout(cmd.Context(), args[0])
			} else {
				if _, ok := c.cfg.SessionToken(); !ok {
					return errNoSession
				}
				err = client.LogoutCurrent(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			cmd.Println("logged out")
			return nil
		},
	}
}
