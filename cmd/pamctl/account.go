package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

func newBalanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [player-id]",
		Short: "Show the wallet balance",
		Long:  `Show the wallet balance of a player, by default the player of the configured session.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			playerID, err := c.currentPlayer(client, args)
			if err != nil {
				return err
			}

			balance, err := client.GetBalance(cmd.Context(), playerID)
			if err != nil {
				return fmt.Errorf("balance: %w", err)
			}

			return c.render(cmd.OutOrStdout(), balance, func(w io.Writer) error {
				return writeBalance(w, balance)
			})
		},
	}
}

func writeBalance(w io.Writer, b *pamsdk.Balance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CURRENCY\tTOTAL\tREAL\tBONUS")
	_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", b.Currency, b.TotalAmount, b.RealAmount, b.BonusAmount)
	return tw.Flush()
}

func newProfileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [player-id]",
		Short: "Show the player profile",
		Long:  `Show the account profile of a player, by default the player of the configured session.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			playerID, err := c.currentPlayer(client, args)
			if err != nil {
				return err
			}

			profile, err := client.GetProfile(cmd.Context(), playerID)
			if err != nil {
				return fmt.Errorf("profile: %w", err)
			}

			return c.render(cmd.OutOrStdout(), profile, func(w io.Writer) error {
				return writeProfile(w, profile)
			})
		},
	}
}

func writeProfile(w io.Writer, p *pamsdk.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", p.ID},
		{"Username", p.Username},
		{"Email", p.Email},
		{"Name", p.FirstName + " " + p.LastName},
		{"Born", fmt.Sprintf("%04d-%02d-%02d", p.Birth.Year, p.Birth.Month, p.Birth.Day)},
		{"Mobile", p.Mobile.Prefix + " " + p.Mobile.Number},
		{"Country", p.Country},
		{"Currency", p.Currency},
		{"Terms accepted", yesNo(p.UserConsents.TermsAndConditions)},
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
