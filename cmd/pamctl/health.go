package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

type healthReport struct {
	Live  *pamsdk.HealthResponse `json:"live"`
	Ready *pamsdk.HealthResponse `json:"ready,omitempty"`
}

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend liveness and readiness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}

			var report healthReport
			if report.Live, err = client.GetLiveness(cmd.Context()); err != nil {
				return fmt.Errorf("liveness: %w", err)
			}
			ready, readyErr := client.GetReadiness(cmd.Context())
			report.Ready = ready

			if err := c.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s: live (%s, up %s)\n",
					client.Environment(), report.Live.Version, report.Live.Uptime)
				if err == nil && ready != nil {
					_, err = fmt.Fprintf(w, "ready: %s\n", ready.Status)
				}
				return err
			}); err != nil {
				return err
			}

			if readyErr != nil {
				return fmt.Errorf("readiness: %w", readyErr)
			}
			return nil
		},
	}
}
