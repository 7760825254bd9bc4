// Package session holds the authenticated user of the device.
//
// A Session is derived from the backend access token. Until one exists the
// app runs local-only: no remote client is bound and no subscription runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
)

// metaKey is where the session lives in the backend metadata table.
const metaKey = persist.NamespaceSyncMetadata + ":session"

// ownerKey names the user whose data the device holds. It survives sign-out
// and goes away only when the backend is cleared.
const ownerKey = persist.NamespaceSyncMetadata + ":owner"

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token is past its expiry. A token without an
// expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Parse builds a Session from an access token.
func Parse(token string, now time.Time) (Session, error) {
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		return Session{}, err
	}

	s := Session{Token: token, UserID: claims.User()}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if s.Expired(now) {
		return Session{}, common.ErrTokenExpired
	}
	return s, nil
}

// Save stores s so the next launch can resume it.
func Save(ctx context.Context, b persist.Backend, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return b.SetMeta(ctx, metaKey, data)
}

// Load returns the saved session. It returns common.ErrNotAuthenticated when
// there is none or the saved one has expired.
func Load(ctx context.Context, b persist.Backend, now time.Time) (Session, error) {
	data, err := b.GetMeta(ctx, metaKey)
	if err != nil {
		return Session{}, err
	}
	if data == nil {
		return Session{}, common.ErrNotAuthenticated
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Token == "" || s.Expired(now) {
		return Session{}, common.ErrNotAuthenticated
	}
	return s, nil
}

// Owner returns the user whose data the device holds, or "" if no one
// signed in since the last wipe.
func Owner(ctx context.Context, b persist.Backend) (string, error) {
	data, err := b.GetMeta(ctx, ownerKey)
	if err != nil {
		return "", fmt.Errorf("read owner: %w", err)
	}
	return string(data), nil
}

// Claim records userID as the owner of the device data. It returns
// common.ErrOtherAccount if another user already owns it.
func Claim(ctx context.Context, b persist.Backend, userID string) error {
	owner, err := Owner(ctx, b)
	if err != nil {
		return err
	}
	switch owner {
	case userID:
		return nil
	case "":
		return b.SetMeta(ctx, ownerKey, []byte(userID))
	default:
		return fmt.Errorf("signed out user %s: %w", owner, common.ErrOtherAccount)
	}
}

// Clear forgets the saved session.
func Clear(ctx context.Context, b persist.Backend) error {
	return b.DeleteMeta(ctx, metaKey)
}
