package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/client/hydrate"
	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const mealsVersion = 1

// MealInput describes a meal to log. An empty Date means the day of logging;
// Servings below or equal to zero count as one.
type MealInput struct {
	Date     string
	MealType models.MealType
	Name     string
	RecipeID string
	Servings float64
	Macros   models.Macros
}

type MealUpdate struct {
	MealType opt.Value[models.MealType]
	Name     opt.Value[string]
	Servings opt.Value[float64]
	Macros   opt.Value[models.Macros]
}

// MealStore holds logged meals, newest first.
type MealStore struct {
	*base[[]models.MealLog]
}

func NewMealStore(ctx context.Context, deps Deps) *MealStore {
	s := &MealStore{
		base: newBase(deps, persist.NamespaceMeals, mealsVersion,
			persist.Discard[[]models.MealLog], func() []models.MealLog { return nil }),
	}
	s.load(ctx)
	return s
}

func (s *MealStore) List() []models.MealLog {
	return s.filter(func(models.MealLog) bool { return true })
}

// ForDate returns the meals logged for a calendar day ("2006-01-02").
func (s *MealStore) ForDate(date string) []models.MealLog {
	return s.filter(func(m models.MealLog) bool { return m.Date == date })
}

// DailyTotals sums the macros of every meal logged for date.
func (s *MealStore) DailyTotals(date string) models.Macros {
	var total models.Macros
	for _, m := range s.ForDate(date) {
		total = total.Add(m.Macros)
	}
	return total
}

func (s *MealStore) Get(id string) (models.MealLog, bool) {
	var (
		m  models.MealLog
		ok bool
	)
	s.read(func(st *[]models.MealLog) {
		if i := indexMeal(*st, id); i >= 0 {
			m, ok = (*st)[i], true
		}
	})
	return m, ok
}

func (s *MealStore) filter(keep func(models.MealLog) bool) []models.MealLog {
	out := make([]models.MealLog, 0)
	s.read(func(st *[]models.MealLog) {
		for _, m := range *st {
			if keep(m) {
				out = append(out, m)
			}
		}
	})
	return out
}

// Add prepends a meal.
func (s *MealStore) Add(ctx context.Context, in MealInput) models.MealLog {
	now := s.now()
	m := models.MealLog{
		ID:       s.newID(),
		Date:     in.Date,
		MealType: in.MealType,
		Name:     in.Name,
		RecipeID: in.RecipeID,
		Servings: in.Servings,
		Macros:   in.Macros,
		LoggedAt: now,
	}
	if m.Date == "" {
		m.Date = now.Format(models.DateLayout)
	}
	if m.Servings <= 0 {
		m.Servings = 1
	}

	s.mutate(ctx, func(st *[]models.MealLog) bool {
		*st = append([]models.MealLog{m}, *st...)
		return true
	})
	s.send(ctx, m.ID, true, remote.MealLogsCreate, mealArgs(m))
	return m
}

func (s *MealStore) Update(ctx context.Context, id string, u MealUpdate) bool {
	var updated models.MealLog
	found := s.mutate(ctx, func(st *[]models.MealLog) bool {
		i := indexMeal(*st, id)
		if i < 0 {
			return false
		}
		m := &(*st)[i]
		u.MealType.Apply(&m.MealType)
		u.Name.Apply(&m.Name)
		u.Servings.Apply(&m.Servings)
		u.Macros.Apply(&m.Macros)
		updated = *m
		return true
	})
	if !found {
		s.log.Debug(ctx, "update of unknown meal ignored", "id", id)
		return false
	}

	args := idArgs(id)
	putOpt(args, "mealType", u.MealType)
	putOpt(args, "name", u.Name)
	putOpt(args, "servings", u.Servings)
	if u.Macros.Provided() {
		args["macros"] = macrosArgs(updated.Macros)
	}
	s.send(ctx, id, false, remote.MealLogsUpdate, args)
	return true
}

func (s *MealStore) Delete(ctx context.Context, id string) bool {
	found := s.mutate(ctx, func(st *[]models.MealLog) bool {
		i := indexMeal(*st, id)
		if i < 0 {
			return false
		}
		*st = append((*st)[:i:i], (*st)[i+1:]...)
		return true
	})
	if !found {
		s.log.Debug(ctx, "delete of unknown meal ignored", "id", id)
		return false
	}
	s.sendRemove(ctx, id, remote.MealLogsRemove)
	return true
}

// Hydrate merges the remote listing, keeping local meals and adding unknown
// ones. Meals deleted locally are not brought back.
func (s *MealStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	items := make([]models.MealLog, 0, len(docs))
	for _, d := range docs {
		if m, ok := decodeMeal(d); ok {
			items = append(items, m)
		}
	}
	items = visible(ctx, s.pending, items, mealKey)

	s.mutate(ctx, func(st *[]models.MealLog) bool {
		*st = hydrate.PreserveLocal(*st, items, mealKey,
			func(a, b models.MealLog) bool { return a.LoggedAt.After(b.LoggedAt) })
		return true
	})
	s.log.Debug(ctx, "hydrated", "records", len(items))
}

func (s *MealStore) Uploads() []Upload {
	list := s.List()
	out := make([]Upload, 0, len(list))
	for _, m := range list {
		out = append(out, Upload{Ref: remote.MealLogsCreate, Args: mealArgs(m)})
	}
	return out
}

// FlushPending sends the changes made while no remote was bound.
func (s *MealStore) FlushPending(ctx context.Context) int {
	return s.flush(ctx, remote.MealLogsRemove, func(id string) (Upload, bool) {
		m, ok := s.Get(id)
		return Upload{Ref: remote.MealLogsCreate, Args: mealArgs(m)}, ok
	})
}

func mealKey(m models.MealLog) string { return m.ID }

func indexMeal(list []models.MealLog, id string) int {
	for i, m := range list {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func mealArgs(m models.MealLog) remote.Args {
	return remote.Args{
		remote.FieldClientID: m.ID,
		"date":               m.Date,
		"mealType":           string(m.MealType),
		"name":               m.Name,
		"recipeId":           m.RecipeID,
		"servings":           m.Servings,
		"macros":             macrosArgs(m.Macros),
		"loggedAt":           remote.Timestamp(m.LoggedAt),
	}
}

func decodeMeal(d remote.Doc) (models.MealLog, bool) {
	id := d.ClientID()
	if id == "" {
		return models.MealLog{}, false
	}
	m := models.MealLog{
		ID:       id,
		Date:     d.String("date"),
		MealType: models.MealType(d.String("mealType")),
		Name:     d.String("name"),
		RecipeID: d.String("recipeId"),
		Servings: d.Float("servings"),
		Macros:   decodeMacros(d.Object("macros")),
		LoggedAt: d.Time("loggedAt"),
	}
	if m.Servings <= 0 {
		m.Servings = 1
	}
	if m.Date == "" && !m.LoggedAt.IsZero() {
		m.Date = m.LoggedAt.Format(models.DateLayout)
	}
	return m, true
}
