package stores

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const onboardingVersion = 1

// OnboardingStore tracks first-run progress. Feature tours are device-local.
type OnboardingStore struct {
	*base[models.OnboardingProgress]
}

func NewOnboardingStore(ctx context.Context, deps Deps) *OnboardingStore {
	s := &OnboardingStore{
		base: newBase(deps, persist.NamespaceOnboarding, onboardingVersion,
			persist.Discard[models.OnboardingProgress], func() models.OnboardingProgress { return models.OnboardingProgress{} }),
	}
	s.load(ctx)
	return s
}

func (s *OnboardingStore) Get() models.OnboardingProgress {
	var out models.OnboardingProgress
	s.read(func(st *models.OnboardingProgress) {
		out = *st
		if st.CompletedTours != nil {
			out.CompletedTours = make(map[string]bool, len(st.CompletedTours))
			for k, v := range st.CompletedTours {
				out.CompletedTours[k] = v
			}
		}
	})
	return out
}

// TourDone reports whether the named tour was completed on this device.
func (s *OnboardingStore) TourDone(name string) bool {
	var done bool
	s.read(func(st *models.OnboardingProgress) { done = st.CompletedTours[name] })
	return done
}

// CompleteTour marks a feature tour as seen on this device.
func (s *OnboardingStore) CompleteTour(ctx context.Context, name string) {
	s.mutate(ctx, func(st *models.OnboardingProgress) bool {
		if st.CompletedTours[name] {
			return false
		}
		if st.CompletedTours == nil {
			st.CompletedTours = make(map[string]bool)
		}
		st.CompletedTours[name] = true
		return true
	})
}

// Complete finishes onboarding and upserts it remotely.
func (s *OnboardingStore) Complete(ctx context.Context) {
	var out models.OnboardingProgress
	s.mutate(ctx, func(st *models.OnboardingProgress) bool {
		st.Completed = true
		st.CompletedAt = s.now()
		out = *st
		return true
	})
	s.send(ctx, singletonID, false, remote.OnboardingUpsert, onboardingArgs(out))
}

// Restart clears onboarding and the local tours so it runs again.
func (s *OnboardingStore) Restart(ctx context.Context) {
	s.mutate(ctx, func(st *models.OnboardingProgress) bool {
		*st = models.OnboardingProgress{}
		return true
	})
	s.send(ctx, singletonID, false, remote.OnboardingUpsert, onboardingArgs(models.OnboardingProgress{}))
}

// Hydrate replaces completion state and keeps the local tours.
func (s *OnboardingStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	if len(docs) == 0 {
		return
	}
	s.pending.uploaded(ctx, singletonID)
	d := docs[0]
	s.mutate(ctx, func(st *models.OnboardingProgress) bool {
		st.Completed = d.Bool("completed")
		st.CompletedAt = d.Time("completedAt")
		return true
	})
}

// FlushPending sends the completion state, completed or restarted, when it
// changed while no remote was bound.
func (s *OnboardingStore) FlushPending(ctx context.Context) int {
	return s.flushSingleton(ctx, func() (Upload, bool) {
		return Upload{Ref: remote.OnboardingUpsert, Args: onboardingArgs(s.Get())}, true
	})
}

func (s *OnboardingStore) Uploads() []Upload {
	st := s.Get()
	if !st.Completed {
		return nil
	}
	return []Upload{{Ref: remote.OnboardingUpsert, Args: onboardingArgs(st)}}
}

func onboardingArgs(st models.OnboardingProgress) remote.Args {
	return remote.Args{
		"completed":   st.Completed,
		"completedAt": remote.Timestamp(st.CompletedAt),
	}
}
