package models

import "time"

type WeightUnit string

const (
	WeightKg  WeightUnit = "kg"
	WeightLbs WeightUnit = "lbs"
)

type DistanceUnit string

const (
	DistanceKm DistanceUnit = "km"
	DistanceMi DistanceUnit = "mi"
)

// DateRange is an inclusive custom history filter.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Settings are the app preferences. HealthKitEnabled and HistoryRange are
// device-local: they are persisted on the device but never synced.
type Settings struct {
	WeightUnit   WeightUnit   `json:"weight_unit"`
	DistanceUnit DistanceUnit `json:"distance_unit"`
	RestTimerSec int          `json:"rest_timer_sec"`
	Theme        string       `json:"theme"`
	UpdatedAt    time.Time    `json:"updated_at"`

	HealthKitEnabled bool       `json:"health_kit_enabled"`
	HistoryRange     *DateRange `json:"history_range,omitempty"`
}

// DefaultSettings are used before anything is persisted or hydrated.
func DefaultSettings() Settings {
	return Settings{
		WeightUnit:   WeightKg,
		DistanceUnit: DistanceKm,
		RestTimerSec: 90,
		Theme:        "system",
	}
}
