package stores

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ReplaceKeepsUnsentAndHidesDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewTemplateStore(ctx, f.deps)
	s.Hydrate(ctx, []remote.Doc{{"clientId": "remote-T"}})

	f.rec.SetOffline(true)
	local := s.Create(ctx, TemplateInput{Name: "Legs"})
	require.True(t, s.Delete(ctx, "remote-T"))
	f.rec.SetOffline(false)

	s.Hydrate(ctx, []remote.Doc{{"clientId": "remote-T"}})
	require.Equal(t, []string{local.ID}, templateIDs(s.List()))

	require.Equal(t, 2, s.FlushPending(ctx))
	var refs []remote.MutationRef
	for _, c := range f.rec.Calls() {
		refs = append(refs, c.Ref)
	}
	require.Equal(t, []remote.MutationRef{remote.TemplatesCreate, remote.TemplatesRemove}, refs)

	s.Hydrate(ctx, []remote.Doc{{"clientId": local.ID, "name": "Legs"}})
	require.Equal(t, []string{local.ID}, templateIDs(s.List()))
	require.Zero(t, s.FlushPending(ctx))
}

func TestRecipes_DeletedRecipeIgnoresStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewRecipeStore(ctx, f.deps)
	r := s.Add(ctx, RecipeInput{Title: "Chili"})
	snapshot := docsFrom(f.rec.Calls(), remote.RecipesCreate)

	require.True(t, s.Delete(ctx, r.ID))
	s.Hydrate(ctx, snapshot)
	require.Empty(t, s.List())
}

func TestPending_LocalOnlyDeleteSendsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rec.SetOffline(true)
	s := NewExerciseStore(ctx, f.deps)
	e := s.Add(ctx, "Sled push", models.ExerciseDistance, "")
	require.True(t, s.Update(ctx, e.ID, ExerciseUpdate{}))
	require.True(t, s.Delete(ctx, e.ID))
	f.rec.SetOffline(false)

	require.Zero(t, s.FlushPending(ctx))
	require.Empty(t, f.rec.Calls())
}

func TestPending_SingletonSentUntilHydrated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rec.SetOffline(true)
	settings := NewSettingsStore(ctx, f.deps)
	onboarding := NewOnboardingStore(ctx, f.deps)
	settings.SetWeightUnit(ctx, models.WeightLbs)
	onboarding.Complete(ctx)
	onboarding.Restart(ctx)
	f.rec.SetOffline(false)

	require.Equal(t, 1, settings.FlushPending(ctx))
	require.Equal(t, remote.SettingsUpsert, f.rec.Last().Ref)
	require.Equal(t, "lbs", f.rec.Last().Args["weightUnit"])

	require.Equal(t, 1, onboarding.FlushPending(ctx))
	require.Equal(t, remote.OnboardingUpsert, f.rec.Last().Ref)
	require.Equal(t, false, f.rec.Last().Args["completed"])

	settings.Hydrate(ctx, []remote.Doc{{"weightUnit": "lbs"}})
	require.Zero(t, settings.FlushPending(ctx))
}

func TestSet_FlushClearAndResetPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rec.SetOffline(true)
	set := NewSet(ctx, f.deps)
	set.Recipes.Add(ctx, RecipeInput{Title: "Chili"})
	set.Goals.Set(ctx, GoalsUpdate{})
	f.rec.SetOffline(false)

	// pending changes survive a restart
	reloaded := NewSet(ctx, f.deps)
	require.Equal(t, 2, reloaded.FlushPending(ctx))

	reloaded.ClearPending(ctx)
	require.Zero(t, reloaded.FlushPending(ctx))

	f.rec.SetOffline(true)
	reloaded.Meals.Add(ctx, MealInput{Name: "Toast"})
	f.rec.SetOffline(false)
	reloaded.Reset(ctx)
	require.Zero(t, reloaded.FlushPending(ctx))
}

func templateIDs(list []models.Template) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}
