package stores

import (
	"strings"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
)

type builtin struct {
	name     string
	typ      models.ExerciseType
	category string
}

var builtinLibrary = []builtin{
	{"Bench Press", models.ExerciseRepsWeight, "chest"},
	{"Incline Dumbbell Press", models.ExerciseRepsWeight, "chest"},
	{"Push-Up", models.ExerciseReps, "chest"},
	{"Squat", models.ExerciseRepsWeight, "legs"},
	{"Deadlift", models.ExerciseRepsWeight, "back"},
	{"Romanian Deadlift", models.ExerciseRepsWeight, "legs"},
	{"Leg Press", models.ExerciseRepsWeight, "legs"},
	{"Lunge", models.ExerciseRepsWeight, "legs"},
	{"Overhead Press", models.ExerciseRepsWeight, "shoulders"},
	{"Lateral Raise", models.ExerciseRepsWeight, "shoulders"},
	{"Barbell Row", models.ExerciseRepsWeight, "back"},
	{"Pull-Up", models.ExerciseReps, "back"},
	{"Lat Pulldown", models.ExerciseRepsWeight, "back"},
	{"Barbell Curl", models.ExerciseRepsWeight, "arms"},
	{"Tricep Pushdown", models.ExerciseRepsWeight, "arms"},
	{"Plank", models.ExerciseDuration, "core"},
	{"Running", models.ExerciseDistance, "cardio"},
	{"Cycling", models.ExerciseDistance, "cardio"},
	{"Rowing", models.ExerciseDistance, "cardio"},
	{"Farmer's Walk", models.ExerciseWeightDistance, "full body"},
}

// BuiltinExercises returns the static exercise catalog. Built-in entries have
// stable ids, are never synced and cannot be edited or deleted.
func BuiltinExercises() []models.Exercise {
	out := make([]models.Exercise, len(builtinLibrary))
	for i, b := range builtinLibrary {
		out[i] = models.Exercise{
			ID:       builtinID(b.name),
			Name:     b.name,
			Type:     b.typ,
			Category: b.category,
		}
	}
	return out
}

func builtinID(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '-'
		}
		return -1
	}, strings.ToLower(name))
	return "builtin-" + slug
}

// IsBuiltinExercise reports whether id belongs to the static catalog.
func IsBuiltinExercise(id string) bool {
	return strings.HasPrefix(id, "builtin-")
}
