package stores

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/hydrate"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// historyVersion 2 added nested set ids; version 1 payloads are discarded
// and refilled from the next remote snapshot.
const historyVersion = 2

// LogUpdate changes a workout log. Providing Exercises rewrites the whole
// nested collection: ids are kept when present and orders re-derived.
type LogUpdate struct {
	TemplateName opt.Value[string]
	Notes        opt.Value[string]
	CompletedAt  opt.Value[time.Time]
	DurationSec  opt.Value[int]
	Exercises    opt.Value[[]models.LogExercise]
}

// HistoryStore holds completed workouts, newest first.
type HistoryStore struct {
	*base[[]models.WorkoutLog]
}

func NewHistoryStore(ctx context.Context, deps Deps) *HistoryStore {
	s := &HistoryStore{
		base: newBase(deps, persist.NamespaceHistory, historyVersion,
			persist.Discard[[]models.WorkoutLog], func() []models.WorkoutLog { return nil }),
	}
	s.load(ctx)
	return s
}

func (s *HistoryStore) List() []models.WorkoutLog {
	return s.filter(func(models.WorkoutLog) bool { return true })
}

func (s *HistoryStore) Get(id string) (models.WorkoutLog, bool) {
	var (
		l  models.WorkoutLog
		ok bool
	)
	s.read(func(st *[]models.WorkoutLog) {
		if i := indexLog(*st, id); i >= 0 {
			l, ok = (*st)[i].Clone(), true
		}
	})
	return l, ok
}

// LogsBetween returns logs whose date falls in [from, to].
func (s *HistoryStore) LogsBetween(from, to time.Time) []models.WorkoutLog {
	return s.filter(func(l models.WorkoutLog) bool {
		d := l.Date()
		return !d.Before(from) && !d.After(to)
	})
}

// LogsForExercise returns logs that contain exerciseID.
func (s *HistoryStore) LogsForExercise(exerciseID string) []models.WorkoutLog {
	return s.filter(func(l models.WorkoutLog) bool {
		for _, e := range l.Exercises {
			if e.ExerciseID == exerciseID {
				return true
			}
		}
		return false
	})
}

// PersonalBest returns the heaviest completed set ever logged for
// exerciseID; more reps win a tie.
func (s *HistoryStore) PersonalBest(exerciseID string) (models.WorkoutSet, bool) {
	var (
		best  models.WorkoutSet
		found bool
	)
	s.read(func(st *[]models.WorkoutLog) {
		for _, l := range *st {
			for _, e := range l.Exercises {
				if e.ExerciseID != exerciseID {
					continue
				}
				for _, set := range e.Sets {
					if !set.Completed {
						continue
					}
					if !found || set.Weight > best.Weight || (set.Weight == best.Weight && set.Reps > best.Reps) {
						best, found = set, true
					}
				}
			}
		}
	})
	return best, found
}

func (s *HistoryStore) filter(keep func(models.WorkoutLog) bool) []models.WorkoutLog {
	out := make([]models.WorkoutLog, 0)
	s.read(func(st *[]models.WorkoutLog) {
		for _, l := range *st {
			if keep(l) {
				out = append(out, l.Clone())
			}
		}
	})
	return out
}

// AddLog prepends a completed workout. Missing ids and timestamps are
// assigned; nested orders are re-derived from position. Adding a log whose
// id already exists replaces it.
func (s *HistoryStore) AddLog(ctx context.Context, l models.WorkoutLog) models.WorkoutLog {
	l = l.Clone()
	if l.ID == "" {
		l.ID = s.newID()
	}
	if l.CompletedAt.IsZero() {
		l.CompletedAt = s.now()
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = l.CompletedAt
	}
	l.Exercises = s.logExercises(l.Exercises)

	s.mutate(ctx, func(st *[]models.WorkoutLog) bool {
		rest := *st
		if i := indexLog(rest, l.ID); i >= 0 {
			rest = append(rest[:i:i], rest[i+1:]...)
		}
		*st = append([]models.WorkoutLog{l.Clone()}, rest...)
		return true
	})
	s.send(ctx, l.ID, true, remote.WorkoutLogsCreate, logArgs(l))
	return l
}

func (s *HistoryStore) UpdateLog(ctx context.Context, id string, u LogUpdate) bool {
	var updated models.WorkoutLog
	found := s.mutate(ctx, func(st *[]models.WorkoutLog) bool {
		i := indexLog(*st, id)
		if i < 0 {
			return false
		}
		l := &(*st)[i]
		u.TemplateName.Apply(&l.TemplateName)
		u.Notes.Apply(&l.Notes)
		u.CompletedAt.Apply(&l.CompletedAt)
		u.DurationSec.Apply(&l.DurationSec)
		if u.Exercises.Provided() {
			ex, _ := u.Exercises.Get()
			l.Exercises = s.logExercises(ex)
		}
		updated = l.Clone()
		return true
	})
	if !found {
		s.log.Debug(ctx, "update of unknown workout log ignored", "id", id)
		return false
	}

	args := idArgs(id)
	putOpt(args, "templateName", u.TemplateName)
	putOpt(args, "notes", u.Notes)
	if u.CompletedAt.Provided() {
		args["completedAt"] = remote.Timestamp(updated.CompletedAt)
	}
	putOpt(args, "durationSec", u.DurationSec)
	if u.Exercises.Provided() {
		args["exercises"] = logExerciseArgs(updated.Exercises)
	}
	s.send(ctx, id, false, remote.WorkoutLogsUpdate, args)
	return true
}

func (s *HistoryStore) DeleteLog(ctx context.Context, id string) bool {
	found := s.mutate(ctx, func(st *[]models.WorkoutLog) bool {
		i := indexLog(*st, id)
		if i < 0 {
			return false
		}
		*st = append((*st)[:i:i], (*st)[i+1:]...)
		return true
	})
	if !found {
		s.log.Debug(ctx, "delete of unknown workout log ignored", "id", id)
		return false
	}
	s.sendRemove(ctx, id, remote.WorkoutLogsRemove)
	return true
}

// Hydrate merges a remote listing without losing local detail: known logs
// stay as they are, unknown ones are added from the listing, logs missing
// from the listing survive. Logs deleted locally stay deleted while the
// listing still holds them.
func (s *HistoryStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	items := make([]models.WorkoutLog, 0, len(docs))
	for _, d := range docs {
		if l, ok := decodeLog(d); ok {
			items = append(items, l)
		}
	}
	items = visible(ctx, s.pending, items, logKey)

	s.mutate(ctx, func(st *[]models.WorkoutLog) bool {
		*st = hydrate.PreserveLocal(*st, items, logKey, newestLogFirst)
		return true
	})
	s.log.Debug(ctx, "hydrated", "records", len(items))
}

func (s *HistoryStore) Uploads() []Upload {
	list := s.List()
	out := make([]Upload, 0, len(list))
	for _, l := range list {
		out = append(out, Upload{Ref: remote.WorkoutLogsCreate, Args: logArgs(l)})
	}
	return out
}

// FlushPending sends the changes made while no remote was bound.
func (s *HistoryStore) FlushPending(ctx context.Context) int {
	return s.flush(ctx, remote.WorkoutLogsRemove, func(id string) (Upload, bool) {
		l, ok := s.Get(id)
		return Upload{Ref: remote.WorkoutLogsCreate, Args: logArgs(l)}, ok
	})
}

func (s *HistoryStore) logExercises(in []models.LogExercise) []models.LogExercise {
	out := make([]models.LogExercise, len(in))
	for i, e := range in {
		if e.ID == "" {
			e.ID = s.newID()
		}
		e.Order = i
		sets := make([]models.WorkoutSet, len(e.Sets))
		for j, set := range e.Sets {
			if set.ID == "" {
				set.ID = s.newID()
			}
			set.Order = j
			sets[j] = set
		}
		e.Sets = sets
		out[i] = e
	}
	return out
}

func logKey(l models.WorkoutLog) string { return l.ID }

func newestLogFirst(a, b models.WorkoutLog) bool { return a.Date().After(b.Date()) }

func indexLog(list []models.WorkoutLog, id string) int {
	for i, l := range list {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func logArgs(l models.WorkoutLog) remote.Args {
	return remote.Args{
		remote.FieldClientID: l.ID,
		"templateId":         l.TemplateID,
		"templateName":       l.TemplateName,
		"startedAt":          remote.Timestamp(l.StartedAt),
		"completedAt":        remote.Timestamp(l.CompletedAt),
		"durationSec":        l.DurationSec,
		"notes":              l.Notes,
		"exercises":          logExerciseArgs(l.Exercises),
	}
}

func logExerciseArgs(list []models.LogExercise) []any {
	out := make([]any, len(list))
	for i, e := range list {
		sets := make([]any, len(e.Sets))
		for j, set := range e.Sets {
			sets[j] = map[string]any{
				remote.FieldClientID: set.ID,
				"order":              set.Order,
				"reps":               set.Reps,
				"weight":             set.Weight,
				"durationSec":        set.DurationSec,
				"distance":           set.Distance,
				"completed":          set.Completed,
			}
		}
		out[i] = map[string]any{
			remote.FieldClientID: e.ID,
			"exerciseId":         e.ExerciseID,
			"name":               e.Name,
			"type":               string(e.Type),
			"order":              e.Order,
			"sets":               sets,
		}
	}
	return out
}

// decodeLog reads a listing entry. The listing normally omits exercises; when
// present they are decoded in their explicit order.
func decodeLog(d remote.Doc) (models.WorkoutLog, bool) {
	id := d.ClientID()
	if id == "" {
		return models.WorkoutLog{}, false
	}
	l := models.WorkoutLog{
		ID:           id,
		TemplateID:   d.String("templateId"),
		TemplateName: d.String("templateName"),
		StartedAt:    d.Time("startedAt"),
		CompletedAt:  d.Time("completedAt"),
		DurationSec:  d.Int("durationSec"),
		Notes:        d.String("notes"),
	}
	for _, e := range byOrder(d.Docs("exercises")) {
		ex := models.LogExercise{
			ID:         e.ClientID(),
			ExerciseID: e.String("exerciseId"),
			Name:       e.String("name"),
			Type:       models.ExerciseType(e.String("type")),
			Order:      e.Int("order"),
		}
		for _, set := range byOrder(e.Docs("sets")) {
			ex.Sets = append(ex.Sets, models.WorkoutSet{
				ID:          set.ClientID(),
				Order:       set.Int("order"),
				Reps:        set.Int("reps"),
				Weight:      set.Float("weight"),
				DurationSec: set.Int("durationSec"),
				Distance:    set.Float("distance"),
				Completed:   set.Bool("completed"),
			})
		}
		l.Exercises = append(l.Exercises, ex)
	}
	return l, true
}
