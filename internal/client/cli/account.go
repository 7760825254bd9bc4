package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/spf13/cobra"
)

func (r *runner) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "App preferences",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			s := a.Stores().Settings.Get()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "weight unit     %s\n", s.WeightUnit)
			fmt.Fprintf(w, "distance unit   %s\n", s.DistanceUnit)
			fmt.Fprintf(w, "rest timer      %ds\n", s.RestTimerSec)
			fmt.Fprintf(w, "theme           %s\n", s.Theme)
			fmt.Fprintf(w, "health sync     %t\n", s.HealthKitEnabled)
			return nil
		}),
	}

	var weight, distance string
	setUnit := &cobra.Command{
		Use:   "set-unit",
		Short: "Change weight and distance units",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			fs := cmd.Flags()
			if !fs.Changed("weight") && !fs.Changed("distance") {
				return fmt.Errorf("%w: give --weight and/or --distance", common.ErrValidation)
			}
			if fs.Changed("weight") {
				u := models.WeightUnit(weight)
				if u != models.WeightKg && u != models.WeightLbs {
					return fmt.Errorf("%w: unknown weight unit %q", common.ErrValidation, weight)
				}
				a.Stores().Settings.SetWeightUnit(ctx, u)
			}
			if fs.Changed("distance") {
				u := models.DistanceUnit(distance)
				if u != models.DistanceKm && u != models.DistanceMi {
					return fmt.Errorf("%w: unknown distance unit %q", common.ErrValidation, distance)
				}
				a.Stores().Settings.SetDistanceUnit(ctx, u)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated")
			return nil
		}),
	}
	setUnit.Flags().StringVar(&weight, "weight", "", "kg or lbs")
	setUnit.Flags().StringVar(&distance, "distance", "", "km or mi")

	cmd.AddCommand(get, setUnit)
	return cmd
}

func (r *runner) subscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Subscription state",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current entitlement",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			s := a.Stores().Subscription.Get()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tier     %s\n", s.Tier)
			fmt.Fprintf(w, "status   %s\n", s.Status)
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(w, "expires  %s\n", s.ExpiresAt.Format(time.RFC3339))
			}
			fmt.Fprintf(w, "pro      %t\n", a.Stores().Subscription.IsPro(time.Now()))
			return nil
		}),
	}

	cmd.AddCommand(status)
	return cmd
}

func (r *runner) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the latest data from the sync backend",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			if _, ok := a.Session(); !ok {
				return fmt.Errorf("run fitkeeper login first: %w", common.ErrNotAuthenticated)
			}
			if err := a.SyncNow(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Synced")
			return nil
		}),
	}
}

func (r *runner) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with an access token",
		Long: `Sign in with an access token from the sync backend. Without --token
the token is read from the terminal without echo. Data recorded on this
device before the first sign-in is uploaded once.`,
		Args: cobra.NoArgs,
		RunE: r.run(sessionNone, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			tok, _ := cmd.Flags().GetString(flagToken)
			if tok == "" {
				var err error
				if tok, err = GetToken(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			s, err := a.Login(ctx, tok)
			if errors.Is(err, common.ErrOtherAccount) {
				return fmt.Errorf("%w; run fitkeeper logout --wipe to delete it first", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.UserID)
			return nil
		}),
	}
}

func (r *runner) logoutCmd() *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionNone, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			if err := a.Logout(ctx, wipe); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&wipe, "wipe", false, "also delete all data on this device")
	return cmd
}
