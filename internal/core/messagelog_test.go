package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	clock := newFixedClock()
	log := NewMessageLog(newTestStore(t), nopLogger())
	log.now = clock.Now

	msg, err := log.Append(ctx, "general", "u1", "alice", "hi", "")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	wantID := fmt.Sprintf("%d-u1", clock.Now().UnixMilli())
	if msg.ID != wantID {
		t.Errorf("expected id %q, got %q", wantID, msg.ID)
	}
	if msg.UserID != "u1" || msg.Username != "alice" || msg.Body != "hi" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Timestamp != clock.Now().UnixMilli() {
		t.Errorf("expected timestamp %d, got %d", clock.Now().UnixMilli(), msg.Timestamp)
	}

	messages, err := log.List(ctx, "general")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0] != *msg {
		t.Errorf("stored message differs from returned one: %+v vs %+v", messages[0], *msg)
	}
}

func TestAppendImageMessage(t *testing.T) {
	ctx := context.Background()
	log := NewMessageLog(newTestStore(t), nopLogger())

	msg, err := log.Append(ctx, "general", "u1", "alice", "[image]", "https://cdn.example.com/pic.png")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if msg.ImageURL != "https://cdn.example.com/pic.png" {
		t.Errorf("unexpected image url: %q", msg.ImageURL)
	}

	messages, err := log.List(ctx, "general")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if messages[0].ImageURL != msg.ImageURL {
		t.Errorf("image url not retained: %+v", messages[0])
	}
}

func TestRetentionCap(t *testing.T) {
	ctx := context.Background()
	clock := newFixedClock()
	log := NewMessageLog(newTestStore(t), nopLogger())
	log.now = clock.Now

	total := MessageCap + 1
	for i := 0; i < total; i++ {
		clock.Advance(time.Millisecond)
		if _, err := log.Append(ctx, "general", "u1", "alice", fmt.Sprintf("msg-%d", i), ""); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	messages, err := log.List(ctx, "general")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != MessageCap {
		t.Fatalf("expected %d messages after cap, got %d", MessageCap, len(messages))
	}
	if messages[0].Body != "msg-1" {
		t.Errorf("expected oldest retained message msg-1, got %q", messages[0].Body)
	}
	if messages[len(messages)-1].Body != fmt.Sprintf("msg-%d", total-1) {
		t.Errorf("expected newest message last, got %q", messages[len(messages)-1].Body)
	}
	for _, m := range messages {
		if m.Body == "msg-0" {
			t.Error("evicted message msg-0 still present")
		}
	}
}

func TestListEmptyRoom(t *testing.T) {
	ctx := context.Background()
	log := NewMessageLog(newTestStore(t), nopLogger())

	messages, err := log.List(ctx, "silent")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", messages)
	}
}

func TestAppendValidation(t *testing.T) {
	ctx := context.Background()
	log := NewMessageLog(newTestStore(t), nopLogger())

	for _, tc := range []struct{ room, user, name, body, image string }{
		{"", "u1", "alice", "hi", ""},
		{"general", "", "alice", "hi", ""},
		{"general", "u1", "", "hi", ""},
		{"general", "u1", "alice", "", ""},
	} {
		if _, err := log.Append(ctx, tc.room, tc.user, tc.name, tc.body, tc.image); !errors.Is(err, ErrValidation) {
			t.Errorf("Append(%+v): expected ErrValidation, got %v", tc, err)
		}
	}
}

func TestMessageStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := &faultyStore{inner: newTestStore(t), failSet: true}
	log := NewMessageLog(store, nopLogger())

	if _, err := log.Append(ctx, "general", "u1", "alice", "hi", ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on append, got %v", err)
	}

	store.failSet = false
	store.failGet = true
	if _, err := log.List(ctx, "general"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on list, got %v", err)
	}
}

func TestListDecodeError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	log := NewMessageLog(store, nopLogger())

	if err := store.Set(ctx, "room:general:messages", []byte("{broken")); err != nil {
		t.Fatalf("seed garbage: %v", err)
	}

	_, err := log.List(ctx, "general")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
