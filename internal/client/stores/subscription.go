package stores

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/models"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

const subscriptionVersion = 1

// Entitlement is what the purchase layer reports after a purchase or restore.
type Entitlement struct {
	ProductID string
	Active    bool
	ExpiresAt time.Time
}

// SubscriptionStore mirrors the user's entitlement.
type SubscriptionStore struct {
	*base[models.Subscription]
}

func defaultSubscription() models.Subscription {
	return models.Subscription{Tier: models.TierFree, Status: models.SubscriptionNone}
}

func NewSubscriptionStore(ctx context.Context, deps Deps) *SubscriptionStore {
	s := &SubscriptionStore{
		base: newBase(deps, persist.NamespaceSubscription, subscriptionVersion,
			persist.Discard[models.Subscription], defaultSubscription),
	}
	s.load(ctx)
	return s
}

func (s *SubscriptionStore) Get() models.Subscription {
	var out models.Subscription
	s.read(func(st *models.Subscription) { out = *st })
	return out
}

// IsPro reports whether pro features are unlocked at now.
func (s *SubscriptionStore) IsPro(now time.Time) bool {
	return s.Get().Active(now)
}

// Apply records an entitlement and upserts it remotely.
func (s *SubscriptionStore) Apply(ctx context.Context, e Entitlement) models.Subscription {
	var out models.Subscription
	s.mutate(ctx, func(st *models.Subscription) bool {
		st.ProductID = e.ProductID
		st.ExpiresAt = e.ExpiresAt.UTC()
		if e.Active {
			st.Tier, st.Status = models.TierPro, models.SubscriptionActive
		} else {
			st.Tier = models.TierFree
			st.Status = models.SubscriptionExpired
			if e.ProductID == "" {
				st.Status = models.SubscriptionNone
			}
		}
		st.UpdatedAt = s.now()
		out = *st
		return true
	})
	s.send(ctx, singletonID, false, remote.SubscriptionUpsert, subscriptionArgs(out))
	return out
}

// Hydrate replaces the entitlement with the remote record.
func (s *SubscriptionStore) Hydrate(ctx context.Context, docs []remote.Doc) {
	if len(docs) == 0 {
		return
	}
	s.pending.uploaded(ctx, singletonID)
	d := docs[0]
	s.mutate(ctx, func(st *models.Subscription) bool {
		*st = defaultSubscription()
		if t := models.Tier(d.String("tier")); t == models.TierPro {
			st.Tier = t
		}
		switch status := models.SubscriptionStatus(d.String("status")); status {
		case models.SubscriptionActive, models.SubscriptionExpired:
			st.Status = status
		}
		st.ProductID = d.String("productId")
		st.ExpiresAt = d.Time("expiresAt")
		st.UpdatedAt = d.Time("updatedAt")
		return true
	})
}

// FlushPending sends the entitlement when it changed while no remote was
// bound.
func (s *SubscriptionStore) FlushPending(ctx context.Context) int {
	return s.flushSingleton(ctx, func() (Upload, bool) { return first(s.Uploads()) })
}

func (s *SubscriptionStore) Uploads() []Upload {
	st := s.Get()
	if st.UpdatedAt.IsZero() {
		return nil
	}
	return []Upload{{Ref: remote.SubscriptionUpsert, Args: subscriptionArgs(st)}}
}

func subscriptionArgs(st models.Subscription) remote.Args {
	return remote.Args{
		"tier":      string(st.Tier),
		"status":    string(st.Status),
		"productId": st.ProductID,
		"expiresAt": remote.Timestamp(st.ExpiresAt),
		"updatedAt": remote.Timestamp(st.UpdatedAt),
	}
}
