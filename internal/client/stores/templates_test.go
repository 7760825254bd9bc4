package stores

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTemplates_CreateAppendsWithOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewTemplateStore(ctx, f.deps)

	a := s.Create(ctx, TemplateInput{Name: "Push", Exercises: []TemplateExerciseInput{
		{ExerciseID: "builtin-bench-press", Name: "Bench Press", TargetSets: 3, TargetReps: 8},
		{ExerciseID: "builtin-push-up", Name: "Push-Up", TargetSets: 3, TargetReps: 15},
	}})
	b := s.Create(ctx, TemplateInput{Name: "Pull"})

	list := s.List()
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, b.ID, list[1].ID)
	require.Equal(t, 0, a.Exercises[0].Order)
	require.Equal(t, 1, a.Exercises[1].Order)
	require.NotEqual(t, a.Exercises[0].ID, a.Exercises[1].ID)
}

func TestTemplates_UpdateRewritesExercises(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewTemplateStore(ctx, f.deps)
	tpl := s.Create(ctx, TemplateInput{Name: "Legs", Exercises: []TemplateExerciseInput{
		{Name: "Squat"}, {Name: "Lunge"},
	}})

	ok := s.Update(ctx, tpl.ID, TemplateUpdate{Exercises: opt.Some([]TemplateExerciseInput{
		{ID: tpl.Exercises[1].ID, Name: "Lunge"},
		{Name: "Leg Press"},
	})})
	require.True(t, ok)

	got, _ := s.Get(tpl.ID)
	require.Len(t, got.Exercises, 2)
	require.Equal(t, tpl.Exercises[1].ID, got.Exercises[0].ID)
	require.Equal(t, 0, got.Exercises[0].Order)
	require.Equal(t, "Leg Press", got.Exercises[1].Name)

	args := f.rec.Last().Args
	require.Equal(t, remote.TemplatesUpdate, f.rec.Last().Ref)
	require.NotContains(t, args, "name")
	require.Len(t, args["exercises"], 2)
	require.NotNil(t, args["updatedAt"])
}

func TestTemplates_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewTemplateStore(ctx, f.deps)
	src := s.Create(ctx, TemplateInput{Name: "Full Body", Exercises: []TemplateExerciseInput{{Name: "Deadlift"}}})

	cp, ok := s.Duplicate(ctx, src.ID)
	require.True(t, ok)
	require.NotEqual(t, src.ID, cp.ID)
	require.Equal(t, "Full Body (copy)", cp.Name)
	require.NotEqual(t, src.Exercises[0].ID, cp.Exercises[0].ID)
	require.Len(t, s.List(), 2)

	_, ok = s.Duplicate(ctx, "missing")
	require.False(t, ok)
}

func TestTemplates_DeleteAndHydrate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewTemplateStore(ctx, f.deps)
	tpl := s.Create(ctx, TemplateInput{Name: "A", Exercises: []TemplateExerciseInput{{Name: "X"}, {Name: "Y"}}})

	other := NewTemplateStore(ctx, newFixture(t).deps)
	other.Hydrate(ctx, docsFrom(f.rec.Calls(), remote.TemplatesCreate))
	require.Empty(t, cmp.Diff(s.List(), other.List()))

	require.True(t, s.Delete(ctx, tpl.ID))
	require.False(t, s.Delete(ctx, tpl.ID))
	require.Empty(t, s.List())

	// explicit order wins over array position
	other.Hydrate(ctx, []remote.Doc{{
		"clientId": "T2",
		"exercises": []any{
			map[string]any{"clientId": "b", "order": 1.0},
			map[string]any{"clientId": "a", "order": 0.0},
		},
	}})
	got, ok := other.Get("T2")
	require.True(t, ok)
	require.Equal(t, "a", got.Exercises[0].ID)
	require.Len(t, other.List(), 1)
}
