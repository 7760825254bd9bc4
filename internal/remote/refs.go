package remote

import "strings"

// MutationRef names a remote write, e.g. "workoutLogs:create".
type MutationRef string

// QueryRef names a remote read, e.g. "workoutLogs:list".
type QueryRef string

// Table returns the part before the colon.
func (r MutationRef) Table() string { t, _ := split(string(r)); return t }

// Op returns the part after the colon.
func (r MutationRef) Op() string { _, op := split(string(r)); return op }

// Table returns the part before the colon.
func (r QueryRef) Table() string { t, _ := split(string(r)); return t }

// Op returns the part after the colon.
func (r QueryRef) Op() string { _, op := split(string(r)); return op }

func split(ref string) (string, string) {
	table, op, _ := strings.Cut(ref, ":")
	return table, op
}

// Remote operation names. Collection tables support create/update/remove and
// list; singleton tables support upsert and get.
const (
	ExercisesCreate MutationRef = "exercises:create"
	ExercisesUpdate MutationRef = "exercises:update"
	ExercisesRemove MutationRef = "exercises:remove"
	ExercisesList   QueryRef    = "exercises:list"

	TemplatesCreate MutationRef = "templates:create"
	TemplatesUpdate MutationRef = "templates:update"
	TemplatesRemove MutationRef = "templates:remove"
	TemplatesList   QueryRef    = "templates:list"

	WorkoutLogsCreate MutationRef = "workoutLogs:create"
	WorkoutLogsUpdate MutationRef = "workoutLogs:update"
	WorkoutLogsRemove MutationRef = "workoutLogs:remove"
	WorkoutLogsList   QueryRef    = "workoutLogs:list"

	RecipesCreate MutationRef = "recipes:create"
	RecipesUpdate MutationRef = "recipes:update"
	RecipesRemove MutationRef = "recipes:remove"
	RecipesList   QueryRef    = "recipes:list"

	MealLogsCreate MutationRef = "mealLogs:create"
	MealLogsUpdate MutationRef = "mealLogs:update"
	MealLogsRemove MutationRef = "mealLogs:remove"
	MealLogsList   QueryRef    = "mealLogs:list"

	NutritionGoalsUpsert MutationRef = "nutritionGoals:upsert"
	NutritionGoalsGet    QueryRef    = "nutritionGoals:get"

	SettingsUpsert MutationRef = "settings:upsert"
	SettingsGet    QueryRef    = "settings:get"

	SubscriptionUpsert MutationRef = "subscription:upsert"
	SubscriptionGet    QueryRef    = "subscription:get"

	OnboardingUpsert MutationRef = "onboarding:upsert"
	OnboardingGet    QueryRef    = "onboarding:get"
)

// Operation names used by the refs above.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpRemove = "remove"
	OpUpsert = "upsert"
	OpList   = "list"
	OpGet    = "get"
)
