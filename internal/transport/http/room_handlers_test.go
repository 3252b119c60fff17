package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parlorchat/parlor-server/internal/core"
)

func TestListRooms(t *testing.T) {
	server, _, jwtConfig := newTestServer(t)
	token := mintToken(t, jwtConfig, "u1", "alice")

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var rooms []core.Room
	if err := json.Unmarshal(resp.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(rooms) != len(core.DefaultRooms()) {
		t.Fatalf("expected %d rooms, got %d", len(core.DefaultRooms()), len(rooms))
	}

	names := make(map[string]bool)
	for _, room := range rooms {
		names[room.ID] = true
	}
	for _, want := range []string{"general", "random", "introductions"} {
		if !names[want] {
			t.Errorf("expected room %q in catalog", want)
		}
	}
}

func TestListRoomsRequiresAuth(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.Code)
	}
	if resp.Body.String() != "ok" {
		t.Errorf("unexpected health body: %q", resp.Body.String())
	}
}
