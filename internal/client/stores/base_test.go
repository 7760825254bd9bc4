package stores

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/dispatch"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/stretchr/testify/require"
)

type rejectingMutator struct{}

func (rejectingMutator) Mutate(context.Context, remote.MutationRef, remote.Args) error {
	return errors.New("remote said no")
}

func TestMutationsSucceedWithoutRemote(t *testing.T) {
	ctx := context.Background()
	sink := &dispatch.RecordingSink{}
	d := dispatch.New(logging.Nop(), sink, nil, time.Second)
	set := NewSet(ctx, Deps{Dispatcher: d})

	set.History.AddLog(ctx, models.WorkoutLog{ID: "L1"})
	set.Settings.SetWeightUnit(ctx, models.WeightLbs)
	d.Wait()

	require.Len(t, set.History.List(), 1)
	require.Equal(t, models.WeightLbs, set.Settings.Get().WeightUnit)
	for _, r := range sink.Results() {
		require.Equal(t, dispatch.OutcomeSkipped, r.Outcome)
	}
}

func TestMutationsSucceedWhenRemoteRejects(t *testing.T) {
	ctx := context.Background()
	sink := &dispatch.RecordingSink{}
	d := dispatch.New(logging.Nop(), sink, nil, time.Second)
	d.SetClient(rejectingMutator{})
	set := NewSet(ctx, Deps{Dispatcher: d})

	r := set.Recipes.Add(ctx, RecipeInput{Title: "Chili"})
	require.True(t, set.Recipes.Delete(ctx, r.ID))
	set.Meals.Add(ctx, MealInput{Name: "Toast"})
	d.Wait()

	require.Empty(t, set.Recipes.List())
	require.Len(t, set.Meals.List(), 1)
	results := sink.Results()
	require.Len(t, results, 3)
	for _, res := range results {
		require.Equal(t, dispatch.OutcomeFailed, res.Outcome)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.deps.Backend = brokenBackend{persist.NewMemoryBackend()}
	s := NewRecipeStore(ctx, f.deps)

	r := s.Add(ctx, RecipeInput{Title: "Pancakes"})

	got, ok := s.Get(r.ID)
	require.True(t, ok)
	require.Equal(t, "Pancakes", got.Title)
	require.Equal(t, remote.RecipesCreate, f.rec.Last().Ref)
}

func TestCorruptStateStartsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.backend.Save(ctx, persist.Envelope{
		Namespace: persist.NamespaceMeals, Version: mealsVersion, Payload: []byte("{broken"),
	}))

	s := NewMealStore(ctx, f.deps)
	require.Empty(t, s.List())
}

func TestOnChangeAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewMealStore(ctx, f.deps)

	var n atomic.Int32
	unsubscribe := s.OnChange(func() { n.Add(1) })

	m := s.Add(ctx, MealInput{Name: "Rice"})
	s.Delete(ctx, "ghost")
	s.Hydrate(ctx, nil)
	require.EqualValues(t, 2, n.Load())

	calls := len(f.rec.Calls())
	s.Reset(ctx)
	require.EqualValues(t, 3, n.Load())
	require.Empty(t, s.List())
	require.Len(t, f.rec.Calls(), calls)

	_, ok, err := f.backend.Load(ctx, persist.NamespaceMeals)
	require.NoError(t, err)
	require.False(t, ok)

	unsubscribe()
	s.Add(ctx, MealInput{Name: m.Name})
	require.EqualValues(t, 3, n.Load())
}

func TestSet_BindingsAndUploads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	set := NewSet(ctx, f.deps)

	require.Len(t, set.Bindings(), 9)
	require.Empty(t, set.Uploads())

	set.Exercises.Add(ctx, "Custom", models.ExerciseReps, "")
	set.History.AddLog(ctx, models.WorkoutLog{ID: "L1"})
	set.Goals.Set(ctx, GoalsUpdate{})
	set.Onboarding.CompleteTour(ctx, "x")

	refs := map[remote.MutationRef]int{}
	for _, u := range set.Uploads() {
		refs[u.Ref]++
	}
	require.Equal(t, map[remote.MutationRef]int{
		remote.ExercisesCreate:      1,
		remote.WorkoutLogsCreate:    1,
		remote.NutritionGoalsUpsert: 1,
	}, refs)

	set.Reset(ctx)
	require.Empty(t, set.History.List())
	require.Empty(t, set.Exercises.Custom())
}
