package core

import (
	"fmt"
	"time"
)

// FreshnessWindow is how long a presence announcement counts as active.
const FreshnessWindow = 5 * time.Minute

// MessageCap is the maximum number of messages retained per room.
const MessageCap = 100

// Membership is one user's claim to be present in one room.
// At most one entry per (room, user) pair exists at any time.
type Membership struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	JoinedAt int64  `json:"joinedAt"` // unix milliseconds of the last announcement
}

// Message is one sent chat message. Immutable after creation; destroyed
// only by retention eviction.
type Message struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"` // denormalized at send time
	Body      string `json:"message"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Room is a named channel partitioning presence and messages. The room
// catalog is written once at startup and read-only afterwards.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MessageID derives the identifier for a message sent by userID at ts.
// Unique as long as a sender does not send twice within one millisecond.
func MessageID(ts time.Time, userID string) string {
	return fmt.Sprintf("%d-%s", ts.UnixMilli(), userID)
}

// Key layout in the key-value store.
func roomUsersKey(roomID string) string    { return "room:" + roomID + ":users" }
func roomMessagesKey(roomID string) string { return "room:" + roomID + ":messages" }

const roomsKey = "rooms"
