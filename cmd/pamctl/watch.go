package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

type watchConfig struct {
	creds    credentialFlags
	interval time.Duration
	count    int
}

// watchEvent is one line of `watch -o json` output.
type watchEvent struct {
	Time    time.Time       `json:"time"`
	State   string          `json:"state,omitempty"`
	Balance *pamsdk.Balance `json:"balance,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newWatchCmd(c *cli) *cobra.Command {
	cfg := &watchConfig{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Log in and poll the balance, printing session state changes",
		Long: `Log in, then poll the wallet balance every --interval until interrupted.

Expired sessions are renewed by logging in again with the same credentials.
A revoked session (for example a blocked player) stops the watch.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, c, cfg)
		},
	}

	cfg.creds.register(cmd)
	cmd.Flags().DurationVar(&cfg.interval, "interval", 30*time.Second, "balance polling interval")
	cmd.Flags().IntVar(&cfg.count, "count", 0, "stop after this many polls (0 runs until interrupted)")

	return cmd
}

func runWatch(cmd *cobra.Command, c *cli, cfg *watchConfig) error {
	if cfg.interval <= 0 {
		return errors.New("--interval must be positive")
	}
	username, password, err := cfg.creds.resolve(cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := c.newClient(
		pamsdk.WithAutoRelogin(),
		pamsdk.WithReauthPolicy(pamsdk.RetryExpiredSessions),
	)
	if err != nil {
		return err
	}

	out := &eventWriter{w: cmd.OutOrStdout(), json: c.output == "json"}

	sub := client.Authenticator().Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for state := range sub.C {
			out.write(watchEvent{Time: time.Now(), State: state.String()})
		}
	}()
	defer func() {
		sub.Close()
		wg.Wait()
	}()

	token, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		balance, err := client.GetBalance(ctx, token.UniversalID)
		switch {
		case err == nil:
			out.write(watchEvent{Time: time.Now(), Balance: balance})
		case ctx.Err() != nil:
			return nil
		case pamsdk.IsRetryable(err):
			c.logger.Warn("balance poll failed", "error", err)
			out.write(watchEvent{Time: time.Now(), Error: err.Error()})
		default:
			return fmt.Errorf("balance: %w", err)
		}

		if cfg.count > 0 && polls >= cfg.count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// eventWriter serialises output from the state and polling loops.
type eventWriter struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
}

func (e *eventWriter) write(ev watchEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.json {
		_ = json.NewEncoder(e.w).Encode(ev)
		return
	}

	ts := ev.Time.Format(time.TimeOnly)
	switch {
	case ev.State != "":
		_, _ = fmt.Fprintf(e.w, "%s state    %s\n", ts, ev.State)
	case ev.Balance != nil:
		_, _ = fmt.Fprintf(e.w, "%s balance  %.2f %s (real %.2f, bonus %.2f)\n",
			ts, ev.Balance.TotalAmount, ev.Balance.Currency, ev.Balance.RealAmount, ev.Balance.BonusAmount)
	default:
		_, _ = fmt.Fprintf(e.w, "%s error    %s\n", ts, ev.Error)
	}
}
