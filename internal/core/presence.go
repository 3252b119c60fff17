package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/kv"
	"github.com/parlorchat/parlor-server/internal/metrics"
)

// PresenceTracker answers "who is active in room R right now", with
// self-healing eviction of entries older than FreshnessWindow.
//
// All operations are plain read-modify-write against one key. Two
// concurrent writers to the same room race last-writer-wins; the store
// offers no compare-and-set and none is attempted here.
type PresenceTracker struct {
	store kv.Store
	log   *zerolog.Logger
	now   func() time.Time
}

// NewPresenceTracker creates a presence tracker backed by store.
func NewPresenceTracker(store kv.Store, logger *zerolog.Logger) *PresenceTracker {
	return &PresenceTracker{
		store: store,
		log:   logger,
		now:   time.Now,
	}
}

// Announce records that userID is present in roomID, replacing any prior
// entry for the same user. Idempotent: repeated calls keep exactly one
// entry, with JoinedAt advancing.
func (t *PresenceTracker) Announce(ctx context.Context, roomID, userID, username string) (*Membership, error) {
	if roomID == "" || userID == "" || username == "" {
		return nil, ErrValidation
	}

	key := roomUsersKey(roomID)
	members, err := t.loadMembers(ctx, key)
	if err != nil {
		return nil, err
	}

	kept := members[:0]
	for _, m := range members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}

	entry := Membership{
		UserID:   userID,
		Username: username,
		JoinedAt: t.now().UnixMilli(),
	}
	kept = append(kept, entry)

	if err := t.saveMembers(ctx, key, kept); err != nil {
		return nil, err
	}

	metrics.PresenceAnnouncements.Inc()
	t.log.Debug().Str("room", roomID).Str("user", userID).Msg("presence announced")
	return &entry, nil
}

// Withdraw removes userID from roomID. Withdrawing an absent user is a
// no-op, not an error.
func (t *PresenceTracker) Withdraw(ctx context.Context, roomID, userID string) error {
	if roomID == "" || userID == "" {
		return ErrValidation
	}

	key := roomUsersKey(roomID)
	members, err := t.loadMembers(ctx, key)
	if err != nil {
		return err
	}

	kept := members[:0]
	for _, m := range members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) {
		return nil
	}

	if err := t.saveMembers(ctx, key, kept); err != nil {
		return err
	}

	t.log.Debug().Str("room", roomID).Str("user", userID).Msg("presence withdrawn")
	return nil
}

// ListActive returns the members of roomID whose last announcement is
// strictly newer than the freshness cutoff. Stale entries are pruned
// from storage as a side effect (lazy eviction; there is no background
// sweep). A failed prune write is logged and does not fail the read.
func (t *PresenceTracker) ListActive(ctx context.Context, roomID string) ([]Membership, error) {
	if roomID == "" {
		return nil, ErrValidation
	}

	key := roomUsersKey(roomID)
	members, err := t.loadMembers(ctx, key)
	if err != nil {
		return nil, err
	}

	cutoff := t.now().Add(-FreshnessWindow).UnixMilli()
	active := make([]Membership, 0, len(members))
	for _, m := range members {
		if m.JoinedAt > cutoff {
			active = append(active, m)
		}
	}

	if evicted := len(members) - len(active); evicted > 0 {
		if err := t.saveMembers(ctx, key, active); err != nil {
			t.log.Warn().Err(err).Str("room", roomID).Int("evicted", evicted).Msg("failed to persist stale presence eviction")
		} else {
			metrics.StalePresenceEvicted.Add(float64(evicted))
		}
	}

	return active, nil
}

func (t *PresenceTracker) loadMembers(ctx context.Context, key string) ([]Membership, error) {
	data, err := t.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, unavailable("get", key, err)
	}

	var members []Membership
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	return members, nil
}

func (t *PresenceTracker) saveMembers(ctx context.Context, key string, members []Membership) error {
	data, err := json.Marshal(members)
	if err != nil {
		return unavailable("encode", key, err)
	}
	if err := t.store.Set(ctx, key, data); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}
