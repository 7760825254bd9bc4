package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const goalsVersion = 1

type GoalsUpdate struct {
	Calories opt.Value[float64]
	Protein  opt.Value[float64]
	Carbs    opt.Value[float64]
	Fat      opt.Value[float64]
}

// GoalsStore holds the daily nutrition targets.
type GoalsStore struct {
	*base[models.NutritionGoals]
}

func NewGoalsStore(ctx context.Context, deps Deps) *GoalsStore {
	s := &GoalsStore{
		base: newBase(deps, persist.NamespaceGoals, goalsVersion,
			persist.Discard[models.NutritionGoals], func() models.NutritionGoals { return models.NutritionGoals{} }),
	}
	s.load(ctx)
	return s
}

func (s *GoalsStore) Get() models.NutritionGoals {
	var g models.NutritionGoals
	s.read(func(st *models.NutritionGoals) { g = *st })
	return g
}

// Set applies the provided targets and upserts them remotely.
func (s *GoalsStore) Set(ctx context.Context, u GoalsUpdate) models.NutritionGoals {
	var g models.NutritionGoals
	s.mutate(ctx, func(st *models.NutritionGoals) bool {
		u.Calories.Apply(&st.Calories)
		u.Protein.Apply(&st.Protein)
		u.Carbs.Apply(&st.Carbs)
		u.Fat.Apply(&st.Fat)
		st.UpdatedAt = s.now()
		g = *st
		return true
	})

	args := remote.Args{}
	putOpt(args, "calories", u.Calories)
	putOpt(args, "protein", u.Protein)
	putOpt(args, "carbs", u.Carbs)
	putOpt(args, "fat", u.Fat)
	args["updatedAt"] = remote.Timestamp(g.UpdatedAt)
	s.send(ctx, singletonID, false, remote.NutritionGoalsUpsert, args)
	return g
}

// Hydrate replaces the goals with the remote record. An empty snapshot
// means nothing was synced yet and leaves local goals alone.
func (s *GoalsStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	if len(docs) == 0 {
		return
	}
	s.pending.uploaded(ctx, singletonID)
	d := docs[0]
	s.mutate(ctx, func(st *models.NutritionGoals) bool {
		*st = models.NutritionGoals{
			Macros:    decodeMacros(d),
			UpdatedAt: d.Time("updatedAt"),
		}
		return true
	})
}

// FlushPending sends the goals when they changed while no remote was bound.
func (s *GoalsStore) FlushPending(ctx context.Context) int {
	return s.flushSingleton(ctx, func() (Upload, bool) { return first(s.Uploads()) })
}

func (s *GoalsStore) Uploads() []Upload {
	g := s.Get()
	if g.UpdatedAt.IsZero() {
		return nil
	}
	args := macrosArgs(g.Macros)
	args["updatedAt"] = remote.Timestamp(g.UpdatedAt)
	return []Upload{{Ref: remote.NutritionGoalsUpsert, Args: args}}
}
