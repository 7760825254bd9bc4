package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/app"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type macroFlags struct {
	calories, protein, carbs, fat float64
}

func (m *macroFlags) register(fs *pflag.FlagSet, what string) {
	fs.Float64Var(&m.calories, "calories", 0, "kcal "+what)
	fs.Float64Var(&m.protein, "protein", 0, "grams of protein "+what)
	fs.Float64Var(&m.carbs, "carbs", 0, "grams of carbs "+what)
	fs.Float64Var(&m.fat, "fat", 0, "grams of fat "+what)
}

func (m *macroFlags) macros() models.Macros {
	return models.Macros{Calories: m.calories, Protein: m.protein, Carbs: m.carbs, Fat: m.fat}
}

func (r *runner) recipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			return printRecipes(cmd.OutOrStdout(), a.Stores().Recipes.List())
		}),
	}

	var (
		description string
		ingredients []string
		steps       []string
		servings    int
		macros      macroFlags
	)
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			rec := a.Stores().Recipes.Add(ctx, stores.RecipeInput{
				Title:        args[0],
				Description:  description,
				Ingredients:  ingredients,
				Instructions: steps,
				Servings:     servings,
				Macros:       macros.macros(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Added recipe %s\n", rec.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&description, "description", "", "short description")
	add.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "ingredient (repeatable)")
	add.Flags().StringArrayVar(&steps, "step", nil, "instruction step (repeatable)")
	add.Flags().IntVar(&servings, "servings", 1, "number of servings")
	macros.register(add.Flags(), "per serving")

	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search recipes by title, description or ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			return printRecipes(cmd.OutOrStdout(), a.Stores().Recipes.Search(args[0]))
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			if !a.Stores().Recipes.Delete(ctx, args[0]) {
				return notFound("recipe", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		}),
	}

	cmd.AddCommand(list, add, search, del)
	return cmd
}

func printRecipes(w io.Writer, items []models.Recipe) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSERVINGS\tKCAL/SERVING")
	for _, r := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\n", r.ID, r.Title, r.Servings, r.Macros.Calories)
	}
	return tw.Flush()
}

func validMealType(t models.MealType) bool {
	switch t {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		return true
	}
	return false
}

func today() string {
	return time.Now().Format(models.DateLayout)
}

func (r *runner) mealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Log meals and review daily totals",
	}

	var (
		mealType string
		date     string
		servings float64
		recipeID string
		macros   macroFlags
	)
	add := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Log a meal",
		Long: `Log a meal. With --recipe the name and macros come from the recipe,
scaled by --servings; otherwise macros are the totals given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
			in := stores.MealInput{
				Date:     date,
				MealType: models.MealType(mealType),
				Servings: servings,
				Macros:   macros.macros(),
			}
			if !validMealType(in.MealType) {
				return fmt.Errorf("%w: unknown meal type %q", common.ErrValidation, mealType)
			}
			if len(args) == 1 {
				in.Name = args[0]
			}

			if recipeID != "" {
				rec, ok := a.Stores().Recipes.Get(recipeID)
				if !ok {
					return notFound("recipe", recipeID)
				}
				in.RecipeID = rec.ID
				if in.Name == "" {
					in.Name = rec.Title
				}
				n := servings
				if n <= 0 {
					n = 1
				}
				in.Macros = rec.Macros.Scale(n)
			}
			if in.Name == "" {
				return fmt.Errorf("%w: a meal needs a name or --recipe", common.ErrValidation)
			}

			m := a.Stores().Meals.Add(ctx, in)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged meal %s\n", m.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&mealType, "type", string(models.MealSnack), "breakfast, lunch, dinner or snack")
	add.Flags().StringVar(&date, "date", "", "day of the meal, "+models.DateLayout+" (default today)")
	add.Flags().Float64Var(&servings, "servings", 1, "servings eaten")
	add.Flags().StringVar(&recipeID, "recipe", "", "recipe id")
	macros.register(add.Flags(), "in total")

	var listDate string
	list := &cobra.Command{
		Use:   "list",
		Short: "List logged meals",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			meals := a.Stores().Meals.List()
			if listDate != "" {
				meals = a.Stores().Meals.ForDate(listDate)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tNAME\tKCAL")
			for _, m := range meals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\n", m.ID, m.Date, m.MealType, m.Name, m.Macros.Calories)
			}
			return tw.Flush()
		}),
	}
	list.Flags().StringVar(&listDate, "date", "", "only this day, "+models.DateLayout)

	var totalsDate string
	totals := &cobra.Command{
		Use:   "totals",
		Short: "Show a day's macros against the goals",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			day := totalsDate
			if day == "" {
				day = today()
			}
			eaten := a.Stores().Meals.DailyTotals(day)
			goal := a.Stores().Goals.Get().Macros

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "%s\tEATEN\tGOAL\tLEFT\n", day)
			for _, row := range []struct {
				name       string
				have, want float64
			}{
				{"calories", eaten.Calories, goal.Calories},
				{"protein", eaten.Protein, goal.Protein},
				{"carbs", eaten.Carbs, goal.Carbs},
				{"fat", eaten.Fat, goal.Fat},
			} {
				fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.0f\n", row.name, row.have, row.want, row.want-row.have)
			}
			return tw.Flush()
		}),
	}
	totals.Flags().StringVar(&totalsDate, "date", "", "day, "+models.DateLayout+" (default today)")

	cmd.AddCommand(add, list, totals)
	return cmd
}

func (r *runner) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Daily nutrition targets",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the targets",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(_ context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			g := a.Stores().Goals.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "calories %.0f\nprotein %.0f\ncarbs %.0f\nfat %.0f\n",
				g.Calories, g.Protein, g.Carbs, g.Fat)
			return nil
		}),
	}

	var macros macroFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Change targets; only the given flags change",
		Args:  cobra.NoArgs,
		RunE: r.run(sessionResume, func(ctx context.Context, cmd *cobra.Command, a *app.App, _ []string) error {
			fs := cmd.Flags()
			var u stores.GoalsUpdate
			if fs.Changed("calories") {
				u.Calories = opt.Some(macros.calories)
			}
			if fs.Changed("protein") {
				u.Protein = opt.Some(macros.protein)
			}
			if fs.Changed("carbs") {
				u.Carbs = opt.Some(macros.carbs)
			}
			if fs.Changed("fat") {
				u.Fat = opt.Some(macros.fat)
			}
			a.Stores().Goals.Set(ctx, u)
			fmt.Fprintln(cmd.OutOrStdout(), "Goals updated")
			return nil
		}),
	}
	macros.register(set.Flags(), "per day")

	cmd.AddCommand(get, set)
	return cmd
}
