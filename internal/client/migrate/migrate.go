// Package migrate uploads data that existed on the device before the user
// first signed in, exactly once per user. Later sign-ins only send what
// changed while signed out.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
)

const keyPrefix = "legacy-upload:"

// Source lists the create mutations that recreate local data remotely and
// keeps track of changes no remote has seen yet. *stores.Set implements it.
type Source interface {
	Uploads() []stores.Upload
	FlushPending(ctx context.Context) int
	ClearPending(ctx context.Context)
}

type Runner struct {
	backend    persist.Backend
	dispatcher stores.Dispatcher
	log        logging.Logger
	now        func() time.Time
}

func New(backend persist.Backend, dispatcher stores.Dispatcher, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{
		backend:    backend,
		dispatcher: dispatcher,
		log:        log.With("component", "migrate"),
		now:        time.Now,
	}
}

func markerKey(userID string) string {
	return keyPrefix + userID
}

// Done reports whether the upload already ran for userID.
func (r *Runner) Done(ctx context.Context, userID string) (bool, error) {
	v, err := r.backend.GetMeta(ctx, markerKey(userID))
	if err != nil {
		return false, fmt.Errorf("read upload marker: %w", err)
	}
	return v != nil, nil
}

// Run dispatches every upload from src unless it already ran for userID,
// then records the marker. Once the marker exists only the changes src made
// while signed out are sent. It returns the number of dispatched mutations.
func (r *Runner) Run(ctx context.Context, userID string, src Source) (int, error) {
	if userID == "" {
		return 0, common.ErrNotAuthenticated
	}

	done, err := r.Done(ctx, userID)
	if err != nil {
		return 0, err
	}
	if done {
		r.log.Debug(ctx, "local data already uploaded", "user", userID)
		return src.FlushPending(ctx), nil
	}

	uploads := src.Uploads()
	n := 0
	for _, u := range uploads {
		if r.dispatcher.Dispatch(u.Ref, u.Args) {
			n++
		}
	}
	if n == len(uploads) {
		src.ClearPending(ctx)
	}

	stamp := r.now().UTC().Format(time.RFC3339)
	if err := r.backend.SetMeta(ctx, markerKey(userID), []byte(stamp)); err != nil {
		return n, fmt.Errorf("write upload marker: %w", err)
	}

	r.log.Info(ctx, "uploaded local data", "user", userID, "records", n)
	return n, nil
}
