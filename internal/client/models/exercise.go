package models

import "time"

// ExerciseType selects which set fields are meaningful for an exercise.
type ExerciseType string

const (
	ExerciseRepsWeight     ExerciseType = "reps_weight"
	ExerciseReps           ExerciseType = "reps"
	ExerciseDuration       ExerciseType = "duration"
	ExerciseDistance       ExerciseType = "distance"
	ExerciseWeightDistance ExerciseType = "weight_distance"
)

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseRepsWeight, ExerciseReps, ExerciseDuration, ExerciseDistance, ExerciseWeightDistance:
		return true
	}
	return false
}

// Exercise is an entry of the exercise library.
type Exercise struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      ExerciseType `json:"type"`
	Category  string       `json:"category,omitempty"`
	IsCustom  bool         `json:"is_custom"`
	CreatedAt time.Time    `json:"created_at"`
}
