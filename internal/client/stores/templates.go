package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/client/hydrate"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const templatesVersion = 1

// TemplateExerciseInput is one planned exercise. An empty ID gets a fresh
// one; Order is derived from the position in the input slice.
type TemplateExerciseInput struct {
	ID         string
	ExerciseID string
	Name       string
	TargetSets int
	TargetReps int
}

type TemplateInput struct {
	Name      string
	Notes     string
	Exercises []TemplateExerciseInput
}

// TemplateUpdate changes a template. Providing Exercises rewrites the whole
// list and re-derives every order.
type TemplateUpdate struct {
	Name      opt.Value[string]
	Notes     opt.Value[string]
	Exercises opt.Value[[]TemplateExerciseInput]
}

// TemplateStore holds workout templates in creation order.
type TemplateStore struct {
	*base[[]models.Template]
}

func NewTemplateStore(ctx context.Context, deps Deps) *TemplateStore {
	s := &TemplateStore{
		base: newBase(deps, persist.NamespaceTemplates, templatesVersion,
			persist.Discard[[]models.Template], func() []models.Template { return nil }),
	}
	s.load(ctx)
	return s
}

func (s *TemplateStore) List() []models.Template {
	var out []models.Template
	s.read(func(st *[]models.Template) {
		out = make([]models.Template, len(*st))
		for i, t := range *st {
			out[i] = t.Clone()
		}
	})
	return out
}

func (s *TemplateStore) Get(id string) (models.Template, bool) {
	var (
		t  models.Template
		ok bool
	)
	s.read(func(st *[]models.Template) {
		if i := indexTemplate(*st, id); i >= 0 {
			t, ok = (*st)[i].Clone(), true
		}
	})
	return t, ok
}

// Create appends a new template.
func (s *TemplateStore) Create(ctx context.Context, in TemplateInput) models.Template {
	now := s.now()
	t := models.Template{
		ID:        s.newID(),
		Name:      in.Name,
		Notes:     in.Notes,
		Exercises: s.templateExercises(in.Exercises),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mutate(ctx, func(st *[]models.Template) bool {
		*st = append(*st, t.Clone())
		return true
	})
	s.send(ctx, t.ID, true, remote.TemplatesCreate, templateArgs(t))
	return t
}

// Duplicate copies a template under a new id with fresh exercise ids.
func (s *TemplateStore) Duplicate(ctx context.Context, id string) (models.Template, bool) {
	src, ok := s.Get(id)
	if !ok {
		s.log.Debug(ctx, "duplicate of unknown template ignored", "id", id)
		return models.Template{}, false
	}

	in := TemplateInput{Name: src.Name + " (copy)", Notes: src.Notes}
	for _, e := range src.Exercises {
		in.Exercises = append(in.Exercises, TemplateExerciseInput{
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			TargetSets: e.TargetSets,
			TargetReps: e.TargetReps,
		})
	}
	return s.Create(ctx, in), true
}

func (s *TemplateStore) Update(ctx context.Context, id string, u TemplateUpdate) bool {
	var updated models.Template
	found := s.mutate(ctx, func(st *[]models.Template) bool {
		i := indexTemplate(*st, id)
		if i < 0 {
			return false
		}
		t := &(*st)[i]
		u.Name.Apply(&t.Name)
		u.Notes.Apply(&t.Notes)
		if u.Exercises.Provided() {
			in, _ := u.Exercises.Get()
			t.Exercises = s.templateExercises(in)
		}
		t.UpdatedAt = s.now()
		updated = t.Clone()
		return true
	})
	if !found {
		s.log.Debug(ctx, "update of unknown template ignored", "id", id)
		return false
	}

	args := idArgs(id)
	putOpt(args, "name", u.Name)
	putOpt(args, "notes", u.Notes)
	if u.Exercises.Provided() {
		args["exercises"] = templateExerciseArgs(updated.Exercises)
	}
	args["updatedAt"] = remote.Timestamp(updated.UpdatedAt)
	s.send(ctx, id, false, remote.TemplatesUpdate, args)
	return true
}

func (s *TemplateStore) Delete(ctx context.Context, id string) bool {
	found := s.mutate(ctx, func(st *[]models.Template) bool {
		i := indexTemplate(*st, id)
		if i < 0 {
			return false
		}
		*st = append((*st)[:i:i], (*st)[i+1:]...)
		return true
	})
	if !found {
		s.log.Debug(ctx, "delete of unknown template ignored", "id", id)
		return false
	}
	s.sendRemove(ctx, id, remote.TemplatesRemove)
	return true
}

// Hydrate replaces all templates with the remote snapshot, except templates
// deleted locally and ones the remote never received.
func (s *TemplateStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	items := make([]models.Template, 0, len(docs))
	for _, d := range docs {
		if t, ok := decodeTemplate(d); ok {
			items = append(items, t)
		}
	}
	items = visible(ctx, s.pending, items, templateKey)

	s.mutate(ctx, func(st *[]models.Template) bool {
		*st = hydrate.Replace(withUnsent(s.pending, *st, items, templateKey), templateKey)
		return true
	})
	s.log.Debug(ctx, "hydrated", "records", len(items))
}

func (s *TemplateStore) Uploads() []Upload {
	list := s.List()
	out := make([]Upload, 0, len(list))
	for _, t := range list {
		out = append(out, Upload{Ref: remote.TemplatesCreate, Args: templateArgs(t)})
	}
	return out
}

// FlushPending sends the changes made while no remote was bound.
func (s *TemplateStore) FlushPending(ctx context.Context) int {
	return s.flush(ctx, remote.TemplatesRemove, func(id string) (Upload, bool) {
		t, ok := s.Get(id)
		return Upload{Ref: remote.TemplatesCreate, Args: templateArgs(t)}, ok
	})
}

func templateKey(t models.Template) string { return t.ID }

func (s *TemplateStore) templateExercises(in []TemplateExerciseInput) []models.TemplateExercise {
	out := make([]models.TemplateExercise, len(in))
	for i, e := range in {
		id := e.ID
		if id == "" {
			id = s.newID()
		}
		out[i] = models.TemplateExercise{
			ID:         id,
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			Order:      i,
			TargetSets: e.TargetSets,
			TargetReps: e.TargetReps,
		}
	}
	return out
}

func indexTemplate(list []models.Template, id string) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func templateArgs(t models.Template) remote.Args {
	return remote.Args{
		remote.FieldClientID: t.ID,
		"name":               t.Name,
		"notes":              t.Notes,
		"exercises":          templateExerciseArgs(t.Exercises),
		"createdAt":          remote.Timestamp(t.CreatedAt),
		"updatedAt":          remote.Timestamp(t.UpdatedAt),
	}
}

func templateExerciseArgs(list []models.TemplateExercise) []any {
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = map[string]any{
			remote.FieldClientID: e.ID,
			"exerciseId":         e.ExerciseID,
			"name":               e.Name,
			"order":              e.Order,
			"targetSets":         e.TargetSets,
			"targetReps":         e.TargetReps,
		}
	}
	return out
}

func decodeTemplate(d remote.Doc) (models.Template, bool) {
	id := d.ClientID()
	if id == "" {
		return models.Template{}, false
	}
	t := models.Template{
		ID:        id,
		Name:      d.String("name"),
		Notes:     d.String("notes"),
		CreatedAt: d.Time("createdAt"),
		UpdatedAt: d.Time("updatedAt"),
	}
	for _, e := range byOrder(d.Docs("exercises")) {
		t.Exercises = append(t.Exercises, models.TemplateExercise{
			ID:         e.ClientID(),
			ExerciseID: e.String("exerciseId"),
			Name:       e.String("name"),
			Order:      e.Int("order"),
			TargetSets: e.Int("targetSets"),
			TargetReps: e.Int("targetReps"),
		})
	}
	return t, true
}
