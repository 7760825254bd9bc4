// Command devremote runs an in-memory sync backend for local development
// and mints access tokens for it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote/devserver"
	"github.com/spf13/cobra"
)

const defaultSecret = "fitkeeper-dev-secret"

func newRootCmd() *cobra.Command {
	var (
		addr      string
		secret    string
		logFormat string
		logLevel  string
	)

	root := &cobra.Command{
		Use:          "devremote",
		Short:        "In-memory sync backend for development",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logging.New(logFormat, logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return devserver.NewServer(addr, secret, l).Run(cmd.Context())
		},
	}
	root.Flags().StringVarP(&addr, "addr", "a", common.DefaultRemoteAddr, "listen address")
	root.PersistentFlags().StringVar(&secret, "secret", defaultSecret, "HS256 signing secret")
	root.Flags().StringVar(&logFormat, "log-format", logging.FormatText, "log format: text, json or zap")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level")

	var (
		user string
		ttl  time.Duration
	)
	token := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("%w: --user is required", common.ErrValidation)
			}
			tok, err := auth.GenerateToken(user, []byte(secret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	token.Flags().StringVarP(&user, "user", "u", "", "user id")
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}

	root.AddCommand(token, version)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
