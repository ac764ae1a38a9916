package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

func newRegisterCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		Long: `Register a new player from a JSON document in the backend's wire format
(username, email, password, firstname, lastname, birth, mobile, country,
currency, userConsents). Use --file - to read it from stdin.

When the backend signs the new player in, the session is printed the same way
as by login.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readRegistration(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := c.newClient()
			if err != nil {
				return err
			}

			resp, err := client.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			c.logger.Info("registered", "player", resp.ID)

			return c.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "registered %s (%s)\n", resp.Username, resp.ID); err != nil {
					return err
				}
				if token, ok := resp.Session(); ok {
					return writeExports(w, token)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "registration JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readRegistration(path string, stdin io.Reader) (pamsdk.RegisterRequest, error) {
	var req pamsdk.RegisterRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open registration: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode registration: %w", err)
	}
	return req, nil
}
