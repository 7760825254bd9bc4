package migrate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	refs    []remote.MutationRef
	offline bool
}

func (r *recorder) Dispatch(ref remote.MutationRef, _ remote.Args) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offline {
		return false
	}
	r.refs = append(r.refs, ref)
	return true
}

func (r *recorder) setOffline(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = v
}

func (r *recorder) Refs() []remote.MutationRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]remote.MutationRef(nil), r.refs...)
}

type metaFailBackend struct {
	*persist.MemoryBackend
}

func (metaFailBackend) SetMeta(context.Context, string, []byte) error {
	return errors.New("read-only")
}

// seededSet fills a set while rec is offline, as before the first sign-in.
func seededSet(t *testing.T, rec *recorder) *stores.Set {
	t.Helper()
	ctx := context.Background()
	rec.setOffline(true)
	defer rec.setOffline(false)

	set := stores.NewSet(ctx, stores.Deps{Dispatcher: rec})
	set.Recipes.Add(ctx, stores.RecipeInput{Title: "Chili"})
	set.History.AddLog(ctx, models.WorkoutLog{ID: "L1"})
	set.Meals.Add(ctx, stores.MealInput{Name: "Toast"})
	return set
}

func TestRun_OncePerUser(t *testing.T) {
	ctx := context.Background()
	backend := persist.NewMemoryBackend()
	rec := &recorder{}
	r := New(backend, rec, nil)
	set := seededSet(t, rec)

	n, err := r.Run(ctx, "user-1", set)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.ElementsMatch(t, []remote.MutationRef{
		remote.RecipesCreate, remote.WorkoutLogsCreate, remote.MealLogsCreate,
	}, rec.Refs())

	done, err := r.Done(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, done)

	n, err = r.Run(ctx, "user-1", set)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, rec.Refs(), 3)

	n, err = r.Run(ctx, "user-2", set)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, rec.Refs(), 6)
}

func TestRun_RequiresUser(t *testing.T) {
	rec := &recorder{}
	_, err := New(persist.NewMemoryBackend(), rec, nil).Run(context.Background(), "", seededSet(t, rec))
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestRun_MarkerWriteFailure(t *testing.T) {
	rec := &recorder{}
	r := New(metaFailBackend{persist.NewMemoryBackend()}, rec, nil)

	n, err := r.Run(context.Background(), "user-1", seededSet(t, rec))
	require.Error(t, err)
	require.Equal(t, 3, n)
	require.Len(t, rec.Refs(), 3)
}

func TestRun_LaterRunSendsChangesMadeWhileSignedOut(t *testing.T) {
	ctx := context.Background()
	backend := persist.NewMemoryBackend()
	rec := &recorder{}
	r := New(backend, rec, nil)
	set := seededSet(t, rec)

	_, err := r.Run(ctx, "user-1", set)
	require.NoError(t, err)

	rec.setOffline(true)
	set.Templates.Create(ctx, stores.TemplateInput{Name: "Push"})
	set.Meals.Delete(ctx, set.Meals.List()[0].ID)
	rec.setOffline(false)

	n, err := r.Run(ctx, "user-1", set)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []remote.MutationRef{remote.TemplatesCreate, remote.MealLogsRemove}, rec.Refs()[3:])

	// resent on every sign-in until a snapshot lists it
	n, err = r.Run(ctx, "user-1", set)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	set.Templates.Hydrate(ctx, []remote.Doc{{remote.FieldClientID: set.Templates.List()[0].ID}})
	n, err = r.Run(ctx, "user-1", set)
	require.NoError(t, err)
	require.Zero(t, n)
}
