package models

import "time"

// Template is a reusable workout plan.
type Template struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Notes     string             `json:"notes,omitempty"`
	Exercises []TemplateExercise `json:"exercises"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TemplateExercise is one planned exercise inside a template. Order is
// authoritative once persisted.
type TemplateExercise struct {
	ID         string `json:"id"`
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
	Order      int    `json:"order"`
	TargetSets int    `json:"target_sets"`
	TargetReps int    `json:"target_reps"`
}

// Clone returns a deep copy of t.
func (t Template) Clone() Template {
	c := t
	if t.Exercises != nil {
		c.Exercises = append([]TemplateExercise(nil), t.Exercises...)
	}
	return c
}
