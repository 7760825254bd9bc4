package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const settingsVersion = 1

// SettingsStore holds app preferences. HealthKit and the history range are
// device-local and never dispatched.
type SettingsStore struct {
	*base[models.Settings]
}

func NewSettingsStore(ctx context.Context, deps Deps) *SettingsStore {
	s := &SettingsStore{
		base: newBase(deps, persist.NamespaceSettings, settingsVersion,
			persist.Discard[models.Settings], models.DefaultSettings),
	}
	s.load(ctx)
	return s
}

func (s *SettingsStore) Get() models.Settings {
	var out models.Settings
	s.read(func(st *models.Settings) {
		out = *st
		if st.HistoryRange != nil {
			r := *st.HistoryRange
			out.HistoryRange = &r
		}
	})
	return out
}

func (s *SettingsStore) SetWeightUnit(ctx context.Context, u models.WeightUnit) {
	s.setSynced(ctx, "weightUnit", string(u), func(st *models.Settings) { st.WeightUnit = u })
}

func (s *SettingsStore) SetDistanceUnit(ctx context.Context, u models.DistanceUnit) {
	s.setSynced(ctx, "distanceUnit", string(u), func(st *models.Settings) { st.DistanceUnit = u })
}

func (s *SettingsStore) SetRestTimer(ctx context.Context, sec int) {
	s.setSynced(ctx, "restTimerSec", sec, func(st *models.Settings) { st.RestTimerSec = sec })
}

func (s *SettingsStore) SetTheme(ctx context.Context, theme string) {
	s.setSynced(ctx, "theme", theme, func(st *models.Settings) { st.Theme = theme })
}

func (s *SettingsStore) setSynced(ctx context.Context, field string, value any, apply func(*models.Settings)) {
	var updatedAt any
	s.mutate(ctx, func(st *models.Settings) bool {
		apply(st)
		st.UpdatedAt = s.now()
		updatedAt = remote.Timestamp(st.UpdatedAt)
		return true
	})
	s.send(ctx, singletonID, false, remote.SettingsUpsert, remote.Args{field: value, "updatedAt": updatedAt})
}

// SetHealthKitEnabled is device-local.
func (s *SettingsStore) SetHealthKitEnabled(ctx context.Context, enabled bool) {
	s.mutate(ctx, func(st *models.Settings) bool {
		st.HealthKitEnabled = enabled
		return true
	})
}

// SetHistoryRange is device-local; nil clears the filter.
func (s *SettingsStore) SetHistoryRange(ctx context.Context, r *models.DateRange) {
	s.mutate(ctx, func(st *models.Settings) bool {
		if r == nil {
			st.HistoryRange = nil
		} else {
			cp := *r
			st.HistoryRange = &cp
		}
		return true
	})
}

// Hydrate replaces the synced fields with the remote record and keeps the
// device-local ones. Missing fields fall back to defaults.
func (s *SettingsStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	if len(docs) == 0 {
		return
	}
	s.pending.uploaded(ctx, singletonID)
	d := docs[0]
	def := models.DefaultSettings()

	s.mutate(ctx, func(st *models.Settings) bool {
		st.WeightUnit = models.WeightUnit(d.String("weightUnit"))
		if st.WeightUnit != models.WeightKg && st.WeightUnit != models.WeightLbs {
			st.WeightUnit = def.WeightUnit
		}
		st.DistanceUnit = models.DistanceUnit(d.String("distanceUnit"))
		if st.DistanceUnit != models.DistanceKm && st.DistanceUnit != models.DistanceMi {
			st.DistanceUnit = def.DistanceUnit
		}
		st.RestTimerSec = def.RestTimerSec
		if d.Has("restTimerSec") {
			st.RestTimerSec = d.Int("restTimerSec")
		}
		st.Theme = d.String("theme")
		if st.Theme == "" {
			st.Theme = def.Theme
		}
		st.UpdatedAt = d.Time("updatedAt")
		return true
	})
}

// FlushPending sends the synced settings when they changed while no remote
// was bound.
func (s *SettingsStore) FlushPending(ctx context.Context) int {
	return s.flushSingleton(ctx, func() (Upload, bool) { return first(s.Uploads()) })
}

func (s *SettingsStore) Uploads() []Upload {
	st := s.Get()
	if st.UpdatedAt.IsZero() {
		return nil
	}
	return []Upload{{Ref: remote.SettingsUpsert, Args: remote.Args{
		"weightUnit":   string(st.WeightUnit),
		"distanceUnit": string(st.DistanceUnit),
		"restTimerSec": st.RestTimerSec,
		"theme":        st.Theme,
		"updatedAt":    remote.Timestamp(st.UpdatedAt),
	}}}
}
