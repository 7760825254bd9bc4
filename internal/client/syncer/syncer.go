package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"golang.org/x/sync/errgroup"
)

// DefaultRetryInterval is used when New gets a zero interval.
const DefaultRetryInterval = 3 * time.Second

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Syncer feeds remote query results into store Hydrate functions.
type Syncer struct {
	bindings []stores.Binding
	log      logging.Logger
	retry    time.Duration
	mode     atomic.Value
}

func New(bindings []stores.Binding, log logging.Logger, retry time.Duration) *Syncer {
	if log == nil {
		log = logging.Nop()
	}
	if retry <= 0 {
		retry = DefaultRetryInterval
	}
	s := &Syncer{
		bindings: bindings,
		log:      log.With("component", "syncer"),
		retry:    retry,
	}
	s.mode.Store(ModeOffline)
	return s
}

// Mode reports whether the last remote interaction succeeded.
func (s *Syncer) Mode() Mode {
	return s.mode.Load().(Mode)
}

func (s *Syncer) setMode(ctx context.Context, m Mode) {
	if old := s.mode.Swap(m); old != m {
		s.log.Info(ctx, "switched mode", "mode", string(m))
	}
}

// HydrateOnce queries every binding concurrently and hydrates the stores
// that answered. Failed queries leave their store untouched; the first
// failure is returned.
func (s *Syncer) HydrateOnce(ctx context.Context, q remote.Querier) error {
	var g errgroup.Group
	for _, b := range s.bindings {
		g.Go(func() error {
			docs, err := q.Query(ctx, b.Query)
			if err != nil {
				s.log.Warn(ctx, "initial query failed", "query", string(b.Query), "error", err)
				return fmt.Errorf("query %s: %w", b.Query, err)
			}
			b.Hydrate(ctx, docs)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		s.setMode(ctx, ModeOffline)
	} else {
		s.setMode(ctx, ModeOnline)
	}
	return err
}

// Run subscribes to every binding and blocks until ctx is done. A broken
// subscription is retried after the retry interval. Run returns
// remote.ErrUnauthorized as soon as any subscription is rejected, since no
// retry can succeed with the same token; cancellation returns nil.
func (s *Syncer) Run(ctx context.Context, w remote.Watcher) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range s.bindings {
		g.Go(func() error {
			return s.watch(ctx, w, b)
		})
	}
	return g.Wait()
}

func (s *Syncer) watch(ctx context.Context, w remote.Watcher, b stores.Binding) error {
	for {
		err := w.Watch(ctx, b.Query, func(docs []remote.Doc) {
			s.setMode(ctx, ModeOnline)
			b.Hydrate(ctx, docs)
		})
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, remote.ErrUnauthorized) {
			s.log.Error(ctx, "subscription rejected", "query", string(b.Query))
			return fmt.Errorf("watch %s: %w", b.Query, err)
		}
		if err != nil {
			s.setMode(ctx, ModeOffline)
			s.log.Warn(ctx, "subscription dropped", "query", string(b.Query), "error", err)
		}

		select {
		case <-time.After(s.retry):
		case <-ctx.Done():
			return nil
		}
	}
}
