package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/spf13/cobra"
)

func (r *runner) exercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercises",
		Aliases: []string{"ex"},
		Short:   "Browse the exercise library and add custom exercises",
	}

	var customOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom exercises",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			items := a.Stores().Exercises.List()
			if customOnly {
				items = a.Stores().Exercises.Custom()
			}
			return printExercises(cmd.OutOrStdout(), items)
		}),
	}
	list.Flags().BoolVar(&customOnly, "custom", false, "only show custom exercises")

	var typ, category string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom exercise",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			t := models.ExerciseType(typ)
			if !t.Valid() {
				return fmt.Errorf("%w: unknown exercise type %q", common.ErrValidation, typ)
			}
			e := a.Stores().Exercises.Add(ctx, args[0], t, category)
			fmt.Fprintf(cmd.OutOrStdout(), "Added exercise %s\n", e.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&typ, "type", string(models.ExerciseRepsWeight),
		"reps_weight, reps, duration, distance or weight_distance")
	add.Flags().StringVar(&category, "category", "", "muscle group or category")

	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search exercises by name or category",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			return printExercises(cmd.OutOrStdout(), a.Stores().Exercises.Search(args[0]))
		}),
	}

	cmd.AddCommand(list, add, search)
	return cmd
}

func printExercises(w io.Writer, items []models.Exercise) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCATEGORY")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Type, e.Category)
	}
	return tw.Flush()
}
