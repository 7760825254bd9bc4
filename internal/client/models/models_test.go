package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleLog() WorkoutLog {
	return WorkoutLog{
		ID:           "L1",
		TemplateName: "Push Day",
		Exercises: []LogExercise{
			{ID: "E1", Name: "Bench Press", Order: 0, Sets: []WorkoutSet{
				{ID: "S1", Order: 0, Reps: 5, Weight: 100, Completed: true},
				{ID: "S2", Order: 1, Reps: 5, Weight: 105, Completed: false},
			}},
		},
	}
}

func TestWorkoutLog_CloneIsDeep(t *testing.T) {
	orig := sampleLog()
	c := orig.Clone()

	c.Exercises[0].Sets[0].Reps = 99
	c.Exercises[0].Name = "changed"

	require.Equal(t, 5, orig.Exercises[0].Sets[0].Reps)
	require.Equal(t, "Bench Press", orig.Exercises[0].Name)
}

func TestWorkoutLog_TotalVolumeCountsCompletedOnly(t *testing.T) {
	require.InDelta(t, 500.0, sampleLog().TotalVolume(), 1e-9)
}

func TestWorkoutLog_DateFallsBackToStart(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	require.Equal(t, start, WorkoutLog{StartedAt: start}.Date())

	done := start.Add(time.Hour)
	require.Equal(t, done, WorkoutLog{StartedAt: start, CompletedAt: done}.Date())
}

func TestRecipe_CloneIsDeep(t *testing.T) {
	r := Recipe{Ingredients: []string{"oats"}, Instructions: []string{"cook"}}
	c := r.Clone()
	c.Ingredients[0] = "rice"
	require.Equal(t, "oats", r.Ingredients[0])
}

func TestMacros_AddScale(t *testing.T) {
	m := Macros{Calories: 100, Protein: 10, Carbs: 5, Fat: 2}
	require.Equal(t, Macros{Calories: 250, Protein: 25, Carbs: 12.5, Fat: 5}, m.Add(m.Scale(1.5)))
}

func TestSubscription_Active(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"free", Subscription{Tier: TierFree, Status: SubscriptionActive}, false},
		{"pro no expiry", Subscription{Tier: TierPro, Status: SubscriptionActive}, true},
		{"pro future expiry", Subscription{Tier: TierPro, Status: SubscriptionActive, ExpiresAt: now.Add(time.Hour)}, true},
		{"pro past expiry", Subscription{Tier: TierPro, Status: SubscriptionActive, ExpiresAt: now.Add(-time.Hour)}, false},
		{"pro expired status", Subscription{Tier: TierPro, Status: SubscriptionExpired}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.sub.Active(now))
		})
	}
}

func TestExerciseType_Valid(t *testing.T) {
	require.True(t, ExerciseRepsWeight.Valid())
	require.False(t, ExerciseType("swimming").Valid())
}
