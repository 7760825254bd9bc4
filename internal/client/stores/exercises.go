package stores

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fitkeeper/internal/client/hydrate"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const exercisesVersion = 1

// ExerciseUpdate changes a custom exercise.
type ExerciseUpdate struct {
	Name     opt.Value[string]
	Type     opt.Value[models.ExerciseType]
	Category opt.Value[string]
}

// ExerciseStore is the exercise library: the built-in catalog followed by
// the user's custom exercises. Only custom exercises are stored and synced.
type ExerciseStore struct {
	*base[[]models.Exercise]
	builtins []models.Exercise
}

func NewExerciseStore(ctx context.Context, deps Deps) *ExerciseStore {
	s := &ExerciseStore{
		base: newBase(deps, persist.NamespaceExercises, exercisesVersion,
			persist.Discard[[]models.Exercise], func() []models.Exercise { return nil }),
		builtins: BuiltinExercises(),
	}
	s.load(ctx)
	return s
}

// List returns built-in exercises followed by custom ones in creation order.
func (s *ExerciseStore) List() []models.Exercise {
	out := append([]models.Exercise(nil), s.builtins...)
	s.read(func(st *[]models.Exercise) {
		out = append(out, *st...)
	})
	return out
}

// Custom returns only the user's exercises.
func (s *ExerciseStore) Custom() []models.Exercise {
	var out []models.Exercise
	s.read(func(st *[]models.Exercise) {
		out = append(out, *st...)
	})
	return out
}

func (s *ExerciseStore) Get(id string) (models.Exercise, bool) {
	for _, e := range s.List() {
		if e.ID == id {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// Search matches q case-insensitively against name and category. An empty q
// returns everything.
func (s *ExerciseStore) Search(q string) []models.Exercise {
	q = strings.TrimSpace(q)
	all := s.List()
	if q == "" {
		return all
	}
	out := make([]models.Exercise, 0)
	for _, e := range all {
		if containsFold(e.Name, q) || containsFold(e.Category, q) {
			out = append(out, e)
		}
	}
	return out
}

// Add appends a custom exercise.
func (s *ExerciseStore) Add(ctx context.Context, name string, typ models.ExerciseType, category string) models.Exercise {
	var e models.Exercise
	s.mutate(ctx, func(st *[]models.Exercise) bool {
		e = s.newExercise(name, typ, category)
		*st = append(*st, e)
		return true
	})
	s.send(ctx, e.ID, true, remote.ExercisesCreate, exerciseArgs(e))
	return e
}

// GetOrCreate returns the exercise whose trimmed name matches name
// case-insensitively, creating a custom one if none exists.
func (s *ExerciseStore) GetOrCreate(ctx context.Context, name string, typ models.ExerciseType) models.Exercise {
	key := normalizeName(name)
	for _, b := range s.builtins {
		if normalizeName(b.Name) == key {
			return b
		}
	}

	var (
		e       models.Exercise
		created bool
	)
	s.mutate(ctx, func(st *[]models.Exercise) bool {
		for _, existing := range *st {
			if normalizeName(existing.Name) == key {
				e = existing
				return false
			}
		}
		e = s.newExercise(name, typ, "")
		*st = append(*st, e)
		created = true
		return true
	})
	if created {
		s.send(ctx, e.ID, true, remote.ExercisesCreate, exerciseArgs(e))
	}
	return e
}

func (s *ExerciseStore) newExercise(name string, typ models.ExerciseType, category string) models.Exercise {
	if !typ.Valid() {
		typ = models.ExerciseRepsWeight
	}
	return models.Exercise{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Type:      typ,
		Category:  strings.TrimSpace(category),
		IsCustom:  true,
		CreatedAt: s.now(),
	}
}

// Update changes a custom exercise. It reports false for unknown or built-in ids.
func (s *ExerciseStore) Update(ctx context.Context, id string, u ExerciseUpdate) bool {
	found := s.mutate(ctx, func(st *[]models.Exercise) bool {
		for i := range *st {
			e := &(*st)[i]
			if e.ID != id {
				continue
			}
			u.Name.Apply(&e.Name)
			u.Type.Apply(&e.Type)
			u.Category.Apply(&e.Category)
			return true
		}
		return false
	})
	if !found {
		s.log.Debug(ctx, "update of unknown exercise ignored", "id", id)
		return false
	}

	args := idArgs(id)
	putOpt(args, "name", u.Name)
	putOpt(args, "type", u.Type)
	putOpt(args, "category", u.Category)
	s.send(ctx, id, false, remote.ExercisesUpdate, args)
	return true
}

// Delete removes a custom exercise. Deleting an unknown id is a no-op.
func (s *ExerciseStore) Delete(ctx context.Context, id string) bool {
	found := s.mutate(ctx, func(st *[]models.Exercise) bool {
		for i, e := range *st {
			if e.ID == id {
				*st = append((*st)[:i:i], (*st)[i+1:]...)
				return true
			}
		}
		return false
	})
	if !found {
		s.log.Debug(ctx, "delete of unknown exercise ignored", "id", id)
		return false
	}
	s.sendRemove(ctx, id, remote.ExercisesRemove)
	return true
}

// Hydrate replaces the custom exercises with the remote snapshot. Exercises
// deleted locally stay deleted; ones the remote never received are kept.
func (s *ExerciseStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	remoteItems := make([]models.Exercise, 0, len(docs))
	for _, d := range docs {
		if e, ok := decodeExercise(d); ok {
			remoteItems = append(remoteItems, e)
		}
	}
	remoteItems = visible(ctx, s.pending, remoteItems, exerciseKey)

	s.mutate(ctx, func(st *[]models.Exercise) bool {
		*st = hydrate.Replace(withUnsent(s.pending, *st, remoteItems, exerciseKey), exerciseKey)
		return true
	})
	s.log.Debug(ctx, "hydrated", "records", len(remoteItems))
}

// Uploads recreates every custom exercise remotely.
func (s *ExerciseStore) Uploads() []Upload {
	custom := s.Custom()
	out := make([]Upload, 0, len(custom))
	for _, e := range custom {
		out = append(out, Upload{Ref: remote.ExercisesCreate, Args: exerciseArgs(e)})
	}
	return out
}

// FlushPending sends the changes made while no remote was bound.
func (s *ExerciseStore) FlushPending(ctx context.Context) int {
	return s.flush(ctx, remote.ExercisesRemove, func(id string) (Upload, bool) {
		e, ok := s.Get(id)
		if !ok || !e.IsCustom {
			return Upload{}, false
		}
		return Upload{Ref: remote.ExercisesCreate, Args: exerciseArgs(e)}, true
	})
}

func exerciseKey(e models.Exercise) string { return e.ID }

func exerciseArgs(e models.Exercise) remote.Args {
	return remote.Args{
		remote.FieldClientID: e.ID,
		"name":               e.Name,
		"type":               string(e.Type),
		"category":           e.Category,
		"createdAt":          remote.Timestamp(e.CreatedAt),
	}
}

func decodeExercise(d remote.Doc) (models.Exercise, bool) {
	id := d.ClientID()
	if id == "" {
		return models.Exercise{}, false
	}
	typ := models.ExerciseType(d.String("type"))
	if !typ.Valid() {
		typ = models.ExerciseRepsWeight
	}
	return models.Exercise{
		ID:        id,
		Name:      d.String("name"),
		Type:      typ,
		Category:  d.String("category"),
		IsCustom:  true,
		CreatedAt: d.Time("createdAt"),
	}, true
}
