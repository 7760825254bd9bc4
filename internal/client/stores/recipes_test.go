package stores

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestRecipes_UpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewRecipeStore(ctx, f.deps)

	require.NotPanics(t, func() {
		ok := s.UpdateRecipe(ctx, "R1", RecipeUpdate{Title: opt.Some("New Title")})
		require.False(t, ok)
	})
	require.Empty(t, s.List())
	require.Empty(t, f.rec.Calls())
}

func TestRecipes_AddUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewRecipeStore(ctx, f.deps)

	r := s.Add(ctx, RecipeInput{
		Title:       "Overnight Oats",
		Ingredients: []string{"oats", "milk"},
		Macros:      models.Macros{Calories: 350, Protein: 15},
	})
	require.Equal(t, 1, r.Servings)
	require.Equal(t, remote.RecipesCreate, f.rec.Last().Ref)

	f.clock.Advance(time.Minute)
	require.True(t, s.UpdateRecipe(ctx, r.ID, RecipeUpdate{
		Title:  opt.Some("Protein Oats"),
		Macros: opt.Some(models.Macros{Calories: 400, Protein: 30}),
	}))

	got, _ := s.Get(r.ID)
	require.Equal(t, "Protein Oats", got.Title)
	require.Equal(t, []string{"oats", "milk"}, got.Ingredients)
	require.True(t, got.UpdatedAt.After(got.CreatedAt))

	args := f.rec.Last().Args
	require.Equal(t, "Protein Oats", args["title"])
	require.Equal(t, 30.0, args["macros"].(map[string]any)["protein"])
	require.NotContains(t, args, "ingredients")
}

func TestRecipes_Search(t *testing.T) {
	ctx := context.Background()
	s := NewRecipeStore(ctx, newFixture(t).deps)
	s.Add(ctx, RecipeInput{Title: "Chicken Bowl", Ingredients: []string{"rice", "Chicken"}})
	s.Add(ctx, RecipeInput{Title: "Smoothie", Description: "banana and RICE milk"})
	s.Add(ctx, RecipeInput{Title: "Salad"})

	require.Len(t, s.Search("rice"), 2)
	require.Len(t, s.Search("  "), 3)
	require.Empty(t, s.Search("tofu"))
}

func TestRecipes_HydrateReplaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewRecipeStore(ctx, f.deps)
	s.Add(ctx, RecipeInput{Title: "Local"})

	s.Hydrate(ctx, []remote.Doc{{
		"clientId":    "R9",
		"title":       "Remote",
		"ingredients": []any{"a", 1.0, "b"},
		"macros":      map[string]any{"calories": 100.0},
	}})

	list := s.List()
	require.Len(t, list, 1)
	require.Equal(t, "R9", list[0].ID)
	require.Equal(t, []string{"a", "b"}, list[0].Ingredients)
	require.Equal(t, 100.0, list[0].Macros.Calories)
	require.Equal(t, 1, list[0].Servings)

	s.Hydrate(ctx, nil)
	require.Empty(t, s.List())
}
