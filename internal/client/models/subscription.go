package models

import "time"

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

type SubscriptionStatus string

const (
	SubscriptionNone    SubscriptionStatus = "none"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription is the entitlement state handed over by the purchase layer.
type Subscription struct {
	Tier      Tier               `json:"tier"`
	Status    SubscriptionStatus `json:"status"`
	ProductID string             `json:"product_id,omitempty"`
	ExpiresAt time.Time          `json:"expires_at,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Active reports whether the subscription grants pro features at now.
func (s Subscription) Active(now time.Time) bool {
	if s.Tier != TierPro || s.Status != SubscriptionActive {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
