package models

import "time"

// Macros are the nutrition values shared by recipes, meals and goals.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns m + o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// Scale returns m multiplied by f.
func (m Macros) Scale(f float64) Macros {
	return Macros{Calories: m.Calories * f, Protein: m.Protein * f, Carbs: m.Carbs * f, Fat: m.Fat * f}
}

// Recipe is a saved recipe. Macros are per serving.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Servings     int       `json:"servings"`
	Macros       Macros    `json:"macros"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.Instructions != nil {
		c.Instructions = append([]string(nil), r.Instructions...)
	}
	return c
}

// MealType is the slot of the day a meal belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// DateLayout is the calendar-day format used for meal dates.
const DateLayout = "2006-01-02"

// MealLog is one logged meal. Macros are totals for the logged servings.
type MealLog struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	MealType MealType  `json:"meal_type"`
	Name     string    `json:"name"`
	RecipeID string    `json:"recipe_id,omitempty"`
	Servings float64   `json:"servings"`
	Macros   Macros    `json:"macros"`
	LoggedAt time.Time `json:"logged_at"`
}

// NutritionGoals are the user's daily targets.
type NutritionGoals struct {
	Macros
	UpdatedAt time.Time `json:"updated_at"`
}
