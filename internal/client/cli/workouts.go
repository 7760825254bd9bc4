package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/spf13/cobra"
)

type setSpec struct {
	exercise string
	reps     int
	weight   float64
}

// parseSet reads "EXERCISE:REPS" or "EXERCISE:REPSxWEIGHT".
func parseSet(s string) (setSpec, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return setSpec{}, fmt.Errorf("%w: set %q, want EXERCISE:REPS[xWEIGHT]", common.ErrValidation, s)
	}
	spec := setSpec{exercise: strings.TrimSpace(s[:i])}

	repsStr, weightStr, hasWeight := strings.Cut(strings.ToLower(s[i+1:]), "x")
	reps, err := strconv.Atoi(strings.TrimSpace(repsStr))
	if err != nil || reps < 0 {
		return setSpec{}, fmt.Errorf("%w: reps in %q", common.ErrValidation, s)
	}
	spec.reps = reps

	if hasWeight {
		w, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil || w < 0 {
			return setSpec{}, fmt.Errorf("%w: weight in %q", common.ErrValidation, s)
		}
		spec.weight = w
	}
	return spec, nil
}

func (r *runner) logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"workouts"},
		Short:   "Record and review workouts",
	}

	var (
		templateID string
		name       string
		notes      string
		duration   time.Duration
		sets       []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a completed workout",
		Long: `Record a completed workout. Sets are given as EXERCISE:REPS or
EXERCISE:REPSxWEIGHT and grouped by exercise in the order given. With
--template and no sets, the template's targets are logged.`,
		Args: cobra.NoArgs,
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			st := a.Stores()
			l := models.WorkoutLog{TemplateName: "Workout", Notes: notes}

			if templateID != "" {
				t, ok := st.Templates.Get(templateID)
				if !ok {
					return notFound("template", templateID)
				}
				l.TemplateID, l.TemplateName = t.ID, t.Name
				if len(sets) == 0 {
					for _, te := range t.Exercises {
						ex := models.LogExercise{ExerciseID: te.ExerciseID, Name: te.Name, Type: models.ExerciseRepsWeight}
						for range te.TargetSets {
							ex.Sets = append(ex.Sets, models.WorkoutSet{Reps: te.TargetReps, Completed: true})
						}
						l.Exercises = append(l.Exercises, ex)
					}
				}
			}
			if name != "" {
				l.TemplateName = name
			}

			index := map[string]int{}
			for _, raw := range sets {
				spec, err := parseSet(raw)
				if err != nil {
					return err
				}
				key := strings.ToLower(spec.exercise)
				i, ok := index[key]
				if !ok {
					e := st.Exercises.GetOrCreate(ctx, spec.exercise, models.ExerciseRepsWeight)
					l.Exercises = append(l.Exercises, models.LogExercise{ExerciseID: e.ID, Name: e.Name, Type: e.Type})
					i = len(l.Exercises) - 1
					index[key] = i
				}
				l.Exercises[i].Sets = append(l.Exercises[i].Sets, models.WorkoutSet{
					Reps: spec.reps, Weight: spec.weight, Completed: true,
				})
			}

			if duration > 0 {
				l.CompletedAt = time.Now().UTC()
				l.StartedAt = l.CompletedAt.Add(-duration)
				l.DurationSec = int(duration.Seconds())
			}

			saved := st.History.AddLog(ctx, l)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged workout %s\n", saved.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&templateID, "template", "", "template id the workout followed")
	add.Flags().StringVar(&name, "name", "", "workout name")
	add.Flags().StringVar(&notes, "notes", "", "notes")
	add.Flags().DurationVar(&duration, "duration", 0, "workout length, e.g. 45m")
	add.Flags().StringArrayVarP(&sets, "set", "s", nil, "EXERCISE:REPS[xWEIGHT] (repeatable)")

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			logs := a.Stores().History.List()
			if from != "" || to != "" {
				start, end, err := parseRange(from, to)
				if err != nil {
					return err
				}
				logs = a.Stores().History.LogsBetween(start, end)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tNAME\tEXERCISES\tVOLUME")
			for _, l := range logs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\n",
					l.ID, l.Date().Format(models.DateLayout), l.TemplateName, len(l.Exercises), l.TotalVolume())
			}
			return tw.Flush()
		}),
	}
	list.Flags().StringVar(&from, "from", "", "first day, "+models.DateLayout)
	list.Flags().StringVar(&to, "to", "", "last day, "+models.DateLayout)

	best := &cobra.Command{
		Use:   "best EXERCISE",
		Short: "Show the heaviest completed set of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			id := args[0]
			for _, e := range a.Stores().Exercises.List() {
				if strings.EqualFold(e.Name, args[0]) {
					id = e.ID
					break
				}
			}
			set, ok := a.Stores().History.PersonalBest(id)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed sets yet")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g x %d\n", set.Weight, set.Reps)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a workout",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			if !a.Stores().History.DeleteLog(ctx, args[0]) {
				return notFound("workout", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		}),
	}

	cmd.AddCommand(add, list, best, del)
	return cmd
}

// parseRange turns inclusive day bounds into a time range. A missing bound
// is open.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	if from != "" {
		t, err := time.Parse(models.DateLayout, from)
		if err != nil {
			return start, end, fmt.Errorf("%w: --from %q", common.ErrValidation, from)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return start, end, fmt.Errorf("%w: --to %q", common.ErrValidation, to)
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}
