package core

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/parlorchat/parlor-server/internal/kv"
)

// Catalog holds the static room set. Written once at startup if absent;
// nothing mutates it afterwards.
type Catalog struct {
	store kv.Store
}

// NewCatalog creates a room catalog backed by store.
func NewCatalog(store kv.Store) *Catalog {
	return &Catalog{store: store}
}

// DefaultRooms is the predefined room set seeded on first startup.
func DefaultRooms() []Room {
	return []Room{
		{ID: "general", Name: "General", Description: "Open discussion for everyone"},
		{ID: "random", Name: "Random", Description: "Off-topic chatter"},
		{ID: "introductions", Name: "Introductions", Description: "Say hello and meet the room"},
	}
}

// EnsureDefaults writes rooms to the catalog key only when no catalog
// exists yet. Idempotent; safe to call on every process start.
func (c *Catalog) EnsureDefaults(ctx context.Context, rooms []Room) error {
	_, err := c.store.Get(ctx, roomsKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return unavailable("get", roomsKey, err)
	}

	data, err := json.Marshal(rooms)
	if err != nil {
		return unavailable("encode", roomsKey, err)
	}
	if err := c.store.Set(ctx, roomsKey, data); err != nil {
		return unavailable("set", roomsKey, err)
	}
	return nil
}

// List returns the room catalog, empty if none was ever written.
func (c *Catalog) List(ctx context.Context) ([]Room, error) {
	data, err := c.store.Get(ctx, roomsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []Room{}, nil
		}
		return nil, unavailable("get", roomsKey, err)
	}

	var rooms []Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, &DecodeError{Key: roomsKey, Err: err}
	}
	return rooms, nil
}
