package models

import "time"

// WorkoutLog is a completed workout. A log owns its exercises and each
// exercise owns its sets: nothing below a log outlives it.
type WorkoutLog struct {
	ID           string        `json:"id"`
	TemplateID   string        `json:"template_id,omitempty"`
	TemplateName string        `json:"template_name"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
	DurationSec  int           `json:"duration_sec"`
	Notes        string        `json:"notes,omitempty"`
	Exercises    []LogExercise `json:"exercises"`
}

// LogExercise is an exercise performed inside a WorkoutLog.
type LogExercise struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exercise_id"`
	Name       string       `json:"name"`
	Type       ExerciseType `json:"type"`
	Order      int          `json:"order"`
	Sets       []WorkoutSet `json:"sets"`
}

// WorkoutSet is a single set of a LogExercise.
type WorkoutSet struct {
	ID          string  `json:"id"`
	Order       int     `json:"order"`
	Reps        int     `json:"reps,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	DurationSec int     `json:"duration_sec,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
	Completed   bool    `json:"completed"`
}

// Clone returns a deep copy of l.
func (l WorkoutLog) Clone() WorkoutLog {
	c := l
	if l.Exercises != nil {
		c.Exercises = make([]LogExercise, len(l.Exercises))
		for i, e := range l.Exercises {
			c.Exercises[i] = e
			if e.Sets != nil {
				c.Exercises[i].Sets = append([]WorkoutSet(nil), e.Sets...)
			}
		}
	}
	return c
}

// Date returns when the workout was completed, falling back to the start
// time for logs without a completion time. The full timestamp is returned;
// callers that need a calendar day truncate it.
func (l WorkoutLog) Date() time.Time {
	if !l.CompletedAt.IsZero() {
		return l.CompletedAt
	}
	return l.StartedAt
}

// TotalVolume sums weight*reps over completed sets.
func (l WorkoutLog) TotalVolume() float64 {
	var v float64
	for _, e := range l.Exercises {
		for _, s := range e.Sets {
			if s.Completed {
				v += s.Weight * float64(s.Reps)
			}
		}
	}
	return v
}
