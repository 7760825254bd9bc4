package models

import "time"

// OnboardingProgress tracks first-run state. CompletedTours is device-local.
type OnboardingProgress struct {
	Completed      bool            `json:"completed"`
	CompletedAt    time.Time       `json:"completed_at,omitempty"`
	CompletedTours map[string]bool `json:"completed_tours,omitempty"`
}
