package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/fitkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/config"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/spf13/cobra"
)

const (
	flagToken   = "token"
	flagOffline = "offline"
)

type sessionMode int

const (
	// sessionResume reconnects with the saved session (or --token) before
	// the command runs.
	sessionResume sessionMode = iota
	// sessionNone never connects on its own.
	sessionNone
)

type action func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error

type runner struct {
	opts []app.Option
}

// NewRootCmd builds the fitkeeper command tree. opts are passed to app.New
// for every command.
func NewRootCmd(opts ...app.Option) *cobra.Command {
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "fitkeeper",
		Short: "Local-first workout and nutrition tracker",
		Long: `fitkeeper keeps workouts, recipes and meals on this device and mirrors
them to the sync backend once you sign in. Every command works offline.`,
		SilenceUsage: true,
	}

	fs := root.PersistentFlags()
	config.RegisterFlags(fs)
	fs.String(flagToken, "", "access token; signs in before the command runs")
	fs.Bool(flagOffline, false, "do not contact the sync backend")

	root.AddCommand(
		r.exercisesCmd(),
		r.templatesCmd(),
		r.logCmd(),
		r.recipesCmd(),
		r.mealsCmd(),
		r.goalsCmd(),
		r.settingsCmd(),
		r.subscriptionCmd(),
		r.syncCmd(),
		r.loginCmd(),
		r.logoutCmd(),
		versionCmd(),
	)
	return root
}

// run opens the app, optionally reconnects, runs fn and closes the app.
func (r *runner) run(mode sessionMode, fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		a, err := app.New(ctx, cfg, r.opts...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
				err = cerr
			}
		}()

		if mode == sessionResume {
			r.reconnect(ctx, cmd, a)
		}
		return fn(ctx, cmd, a, args)
	}
}

func (r *runner) reconnect(ctx context.Context, cmd *cobra.Command, a *app.App) {
	if offline, _ := cmd.Flags().GetBool(flagOffline); offline {
		return
	}

	if tok, _ := cmd.Flags().GetString(flagToken); tok != "" {
		if _, err := a.Login(ctx, tok); err != nil {
			warnf(cmd, "sign-in failed, working offline: %v", err)
		}
		return
	}

	if _, err := a.Resume(ctx); err != nil && !errors.Is(err, common.ErrNotAuthenticated) {
		warnf(cmd, "sync backend unavailable, working offline: %v", err)
	}
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
