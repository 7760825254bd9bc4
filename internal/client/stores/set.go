package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// Set is every store of the app, constructed once and shared by reference.
type Set struct {
	Exercises    *ExerciseStore
	Templates    *TemplateStore
	History      *HistoryStore
	Recipes      *RecipeStore
	Meals        *MealStore
	Goals        *GoalsStore
	Settings     *SettingsStore
	Subscription *SubscriptionStore
	Onboarding   *OnboardingStore
}

// NewSet builds and loads every store.
func NewSet(ctx context.Context, deps Deps) *Set {
	deps = deps.withDefaults()
	return &Set{
		Exercises:    NewExerciseStore(ctx, deps),
		Templates:    NewTemplateStore(ctx, deps),
		History:      NewHistoryStore(ctx, deps),
		Recipes:      NewRecipeStore(ctx, deps),
		Meals:        NewMealStore(ctx, deps),
		Goals:        NewGoalsStore(ctx, deps),
		Settings:     NewSettingsStore(ctx, deps),
		Subscription: NewSubscriptionStore(ctx, deps),
		Onboarding:   NewOnboardingStore(ctx, deps),
	}
}

// Binding connects a remote query to the store that hydrates from it.
type Binding struct {
	Query   remote.QueryRef
	Hydrate func(ctx context.Context, docs []remote.Doc)
}

// Bindings lists the live queries of every store.
func (s *Set) Bindings() []Binding {
	return []Binding{
		{Query: remote.ExercisesList, Hydrate: s.Exercises.Hydrate},
		{Query: remote.TemplatesList, Hydrate: s.Templates.Hydrate},
		{Query: remote.WorkoutLogsList, Hydrate: s.History.Hydrate},
		{Query: remote.RecipesList, Hydrate: s.Recipes.Hydrate},
		{Query: remote.MealLogsList, Hydrate: s.Meals.Hydrate},
		{Query: remote.NutritionGoalsGet, Hydrate: s.Goals.Hydrate},
		{Query: remote.SettingsGet, Hydrate: s.Settings.Hydrate},
		{Query: remote.SubscriptionGet, Hydrate: s.Subscription.Hydrate},
		{Query: remote.OnboardingGet, Hydrate: s.Onboarding.Hydrate},
	}
}

// Uploads lists create mutations that recreate all local data remotely.
func (s *Set) Uploads() []Upload {
	var out []Upload
	out = append(out, s.Exercises.Uploads()...)
	out = append(out, s.Templates.Uploads()...)
	out = append(out, s.History.Uploads()...)
	out = append(out, s.Recipes.Uploads()...)
	out = append(out, s.Meals.Uploads()...)
	out = append(out, s.Goals.Uploads()...)
	out = append(out, s.Settings.Uploads()...)
	out = append(out, s.Subscription.Uploads()...)
	out = append(out, s.Onboarding.Uploads()...)
	return out
}

// Reset clears every store locally.
func (s *Set) Reset(ctx context.Context) {
	s.Exercises.Reset(ctx)
	s.Templates.Reset(ctx)
	s.History.Reset(ctx)
	s.Recipes.Reset(ctx)
	s.Meals.Reset(ctx)
	s.Goals.Reset(ctx)
	s.Settings.Reset(ctx)
	s.Subscription.Reset(ctx)
	s.Onboarding.Reset(ctx)
}

type pendingStore interface {
	FlushPending(ctx context.Context) int
	ClearPending(ctx context.Context)
}

func (s *Set) pendingStores() []pendingStore {
	return []pendingStore{
		s.Exercises, s.Templates, s.History, s.Recipes, s.Meals,
		s.Goals, s.Settings, s.Subscription, s.Onboarding,
	}
}

// FlushPending sends every change made while no remote was bound: skipped
// creates, updates and removes. It returns the number of mutations handed
// to the remote.
func (s *Set) FlushPending(ctx context.Context) int {
	n := 0
	for _, st := range s.pendingStores() {
		n += st.FlushPending(ctx)
	}
	return n
}

// ClearPending forgets skipped creates and updates in every store, e.g.
// after Uploads was sent in full. Local deletes stay remembered.
func (s *Set) ClearPending(ctx context.Context) {
	for _, st := range s.pendingStores() {
		st.ClearPending(ctx)
	}
}
