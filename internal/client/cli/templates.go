package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/spf13/cobra"
)

func (r *runner) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage workout templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tEXERCISES")
			for _, t := range a.Stores().Templates.List() {
				names := make([]string, len(t.Exercises))
				for i, e := range t.Exercises {
					names[i] = e.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%v\n", t.ID, t.Name, names)
			}
			return tw.Flush()
		}),
	}

	var (
		exercises  []string
		sets, reps int
		notes      string
	)
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a template",
		Long: `Create a template from exercise names. Unknown names become custom
exercises.`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			in := stores.TemplateInput{Name: args[0], Notes: notes}
			for _, name := range exercises {
				e := a.Stores().Exercises.GetOrCreate(ctx, name, models.ExerciseRepsWeight)
				in.Exercises = append(in.Exercises, stores.TemplateExerciseInput{
					ExerciseID: e.ID,
					Name:       e.Name,
					TargetSets: sets,
					TargetReps: reps,
				})
			}
			t := a.Stores().Templates.Create(ctx, in)
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %s\n", t.ID)
			return nil
		}),
	}
	create.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, "exercise name (repeatable)")
	create.Flags().IntVar(&sets, "sets", 3, "target sets per exercise")
	create.Flags().IntVar(&reps, "reps", 10, "target reps per set")
	create.Flags().StringVar(&notes, "notes", "", "template notes")

	duplicate := &cobra.Command{
		Use:   "duplicate ID",
		Short: "Copy a template",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			t, ok := a.Stores().Templates.Duplicate(ctx, args[0])
			if !ok {
				return notFound("template", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %s\n", t.ID)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			if !a.Stores().Templates.Delete(ctx, args[0]) {
				return notFound("template", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		}),
	}

	cmd.AddCommand(list, create, duplicate, del)
	return cmd
}
