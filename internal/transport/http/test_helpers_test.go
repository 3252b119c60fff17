package http

import (
	"context"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/auth"
	"github.com/parlorchat/parlor-server/internal/config"
	"github.com/parlorchat/parlor-server/internal/core"
	"github.com/parlorchat/parlor-server/internal/kv"
	kvsqlite "github.com/parlorchat/parlor-server/internal/kv/sqlite"
)

// newTestServer builds a server over an in-memory sqlite store with the
// default room catalog seeded. Returns the server, the raw store, and
// the JWT config for minting test tokens.
func newTestServer(t *testing.T) (*stdhttp.Server, kv.Store, *auth.JWTConfig) {
	t.Helper()

	store, err := kvsqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	disabledLogger := zerolog.Nop()

	catalog := core.NewCatalog(store)
	if err := catalog.EnsureDefaults(context.Background(), core.DefaultRooms()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	presence := core.NewPresenceTracker(store, &disabledLogger)
	messages := core.NewMessageLog(store, &disabledLogger)

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test-clients",
		TTL:      time.Hour,
	}

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.RateLimitPerMinute = 0 // rate limiting off in handler tests

	server := NewServer(catalog, presence, messages, store, jwtConfig, &cfg, &disabledLogger)
	return server, store, jwtConfig
}

// mintToken issues a token for the given identity.
func mintToken(t *testing.T, jwtConfig *auth.JWTConfig, userID, username string) string {
	t.Helper()

	token, err := auth.GenerateToken(jwtConfig, userID, username)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}
