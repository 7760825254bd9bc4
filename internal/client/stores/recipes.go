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

// recipesVersion 2 moved macros to per-serving values; older payloads are
// discarded.
const recipesVersion = 2

type RecipeInput struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	Servings     int
	Macros       models.Macros
}

type RecipeUpdate struct {
	Title        opt.Value[string]
	Description  opt.Value[string]
	Ingredients  opt.Value[[]string]
	Instructions opt.Value[[]string]
	Servings     opt.Value[int]
	Macros       opt.Value[models.Macros]
}

// RecipeStore holds saved recipes in creation order.
type RecipeStore struct {
	*base[[]models.Recipe]
}

func NewRecipeStore(ctx context.Context, deps Deps) *RecipeStore {
	s := &RecipeStore{
		base: newBase(deps, persist.NamespaceRecipes, recipesVersion,
			persist.Discard[[]models.Recipe], func() []models.Recipe { return nil }),
	}
	s.load(ctx)
	return s
}

func (s *RecipeStore) List() []models.Recipe {
	return s.filter(func(models.Recipe) bool { return true })
}

func (s *RecipeStore) Get(id string) (models.Recipe, bool) {
	var (
		r  models.Recipe
		ok bool
	)
	s.read(func(st *[]models.Recipe) {
		if i := indexRecipe(*st, id); i >= 0 {
			r, ok = (*st)[i].Clone(), true
		}
	})
	return r, ok
}

// Search matches q case-insensitively against title, description and
// ingredients.
func (s *RecipeStore) Search(q string) []models.Recipe {
	q = strings.TrimSpace(q)
	return s.filter(func(r models.Recipe) bool {
		if q == "" || containsFold(r.Title, q) || containsFold(r.Description, q) {
			return true
		}
		for _, ing := range r.Ingredients {
			if containsFold(ing, q) {
				return true
			}
		}
		return false
	})
}

func (s *RecipeStore) filter(keep func(models.Recipe) bool) []models.Recipe {
	out := make([]models.Recipe, 0)
	s.read(func(st *[]models.Recipe) {
		for _, r := range *st {
			if keep(r) {
				out = append(out, r.Clone())
			}
		}
	})
	return out
}

// Add appends a recipe. Servings below one are stored as one.
func (s *RecipeStore) Add(ctx context.Context, in RecipeInput) models.Recipe {
	now := s.now()
	r := models.Recipe{
		ID:           s.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Ingredients:  append([]string(nil), in.Ingredients...),
		Instructions: append([]string(nil), in.Instructions...),
		Servings:     max(in.Servings, 1),
		Macros:       in.Macros,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mutate(ctx, func(st *[]models.Recipe) bool {
		*st = append(*st, r.Clone())
		return true
	})
	s.send(ctx, r.ID, true, remote.RecipesCreate, recipeArgs(r))
	return r
}

func (s *RecipeStore) UpdateRecipe(ctx context.Context, id string, u RecipeUpdate) bool {
	var updated models.Recipe
	found := s.mutate(ctx, func(st *[]models.Recipe) bool {
		i := indexRecipe(*st, id)
		if i < 0 {
			return false
		}
		r := &(*st)[i]
		u.Title.Apply(&r.Title)
		u.Description.Apply(&r.Description)
		u.Ingredients.Apply(&r.Ingredients)
		u.Instructions.Apply(&r.Instructions)
		u.Servings.Apply(&r.Servings)
		u.Macros.Apply(&r.Macros)
		r.UpdatedAt = s.now()
		updated = r.Clone()
		return true
	})
	if !found {
		s.log.Debug(ctx, "update of unknown recipe ignored", "id", id)
		return false
	}

	args := idArgs(id)
	putOpt(args, "title", u.Title)
	putOpt(args, "description", u.Description)
	putOpt(args, "ingredients", u.Ingredients)
	putOpt(args, "instructions", u.Instructions)
	putOpt(args, "servings", u.Servings)
	if u.Macros.Provided() {
		args["macros"] = macrosArgs(updated.Macros)
	}
	args["updatedAt"] = remote.Timestamp(updated.UpdatedAt)
	s.send(ctx, id, false, remote.RecipesUpdate, args)
	return true
}

func (s *RecipeStore) Delete(ctx context.Context, id string) bool {
	found := s.mutate(ctx, func(st *[]models.Recipe) bool {
		i := indexRecipe(*st, id)
		if i < 0 {
			return false
		}
		*st = append((*st)[:i:i], (*st)[i+1:]...)
		return true
	})
	if !found {
		s.log.Debug(ctx, "delete of unknown recipe ignored", "id", id)
		return false
	}
	s.sendRemove(ctx, id, remote.RecipesRemove)
	return true
}

// Hydrate replaces all recipes with the remote snapshot, except recipes
// deleted locally and ones the remote never received.
func (s *RecipeStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	items := make([]models.Recipe, 0, len(docs))
	for _, d := range docs {
		if r, ok := decodeRecipe(d); ok {
			items = append(items, r)
		}
	}
	items = visible(ctx, s.pending, items, recipeKey)

	s.mutate(ctx, func(st *[]models.Recipe) bool {
		*st = hydrate.Replace(withUnsent(s.pending, *st, items, recipeKey), recipeKey)
		return true
	})
	s.log.Debug(ctx, "hydrated", "records", len(items))
}

func (s *RecipeStore) Uploads() []Upload {
	list := s.List()
	out := make([]Upload, 0, len(list))
	for _, r := range list {
		out = append(out, Upload{Ref: remote.RecipesCreate, Args: recipeArgs(r)})
	}
	return out
}

// FlushPending sends the changes made while no remote was bound.
func (s *RecipeStore) FlushPending(ctx context.Context) int {
	return s.flush(ctx, remote.RecipesRemove, func(id string) (Upload, bool) {
		r, ok := s.Get(id)
		return Upload{Ref: remote.RecipesCreate, Args: recipeArgs(r)}, ok
	})
}

func recipeKey(r models.Recipe) string { return r.ID }

func indexRecipe(list []models.Recipe, id string) int {
	for i, r := range list {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func macrosArgs(m models.Macros) map[string]any {
	return map[string]any{
		"calories": m.Calories,
		"protein":  m.Protein,
		"carbs":    m.Carbs,
		"fat":      m.Fat,
	}
}

func decodeMacros(d remote.Doc) models.Macros {
	if d == nil {
		return models.Macros{}
	}
	return models.Macros{
		Calories: d.Float("calories"),
		Protein:  d.Float("protein"),
		Carbs:    d.Float("carbs"),
		Fat:      d.Float("fat"),
	}
}

func recipeArgs(r models.Recipe) remote.Args {
	return remote.Args{
		remote.FieldClientID: r.ID,
		"title":              r.Title,
		"description":        r.Description,
		"ingredients":        r.Ingredients,
		"instructions":       r.Instructions,
		"servings":           r.Servings,
		"macros":             macrosArgs(r.Macros),
		"createdAt":          remote.Timestamp(r.CreatedAt),
		"updatedAt":          remote.Timestamp(r.UpdatedAt),
	}
}

func decodeRecipe(d remote.Doc) (models.Recipe, bool) {
	id := d.ClientID()
	if id == "" {
		return models.Recipe{}, false
	}
	return models.Recipe{
		ID:           id,
		Title:        d.String("title"),
		Description:  d.String("description"),
		Ingredients:  d.Strings("ingredients"),
		Instructions: d.Strings("instructions"),
		Servings:     max(d.Int("servings"), 1),
		Macros:       decodeMacros(d.Object("macros")),
		CreatedAt:    d.Time("createdAt"),
		UpdatedAt:    d.Time("updatedAt"),
	}, true
}
