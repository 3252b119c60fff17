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

// MessageLog appends messages to a room's history and serves recent
// history, truncated to the last MessageCap entries.
//
// Like the presence tracker this is whole-value read-modify-write with
// no concurrency control; concurrent appends to the same room can lose
// one another (last writer wins).
type MessageLog struct {
	store kv.Store
	log   *zerolog.Logger
	now   func() time.Time
}

// NewMessageLog creates a message log backed by store.
func NewMessageLog(store kv.Store, logger *zerolog.Logger) *MessageLog {
	return &MessageLog{
		store: store,
		log:   logger,
		now:   time.Now,
	}
}

// Append constructs a message from the given fields, appends it to the
// room's history, evicts the oldest entries past MessageCap, and
// returns the stored message so the caller can render it without a
// follow-up read. At least one of body and imageURL must be set; any
// placeholder substitution for image-only messages happens before the
// message reaches the log.
func (l *MessageLog) Append(ctx context.Context, roomID, userID, username, body, imageURL string) (*Message, error) {
	if roomID == "" || userID == "" || username == "" {
		return nil, ErrValidation
	}
	if body == "" && imageURL == "" {
		return nil, ErrValidation
	}

	key := roomMessagesKey(roomID)
	messages, err := l.loadMessages(ctx, key)
	if err != nil {
		return nil, err
	}

	ts := l.now()
	msg := Message{
		ID:        MessageID(ts, userID),
		UserID:    userID,
		Username:  username,
		Body:      body,
		ImageURL:  imageURL,
		Timestamp: ts.UnixMilli(),
	}

	messages = append(messages, msg)
	if len(messages) > MessageCap {
		messages = messages[len(messages)-MessageCap:]
	}

	if err := l.saveMessages(ctx, key, messages); err != nil {
		return nil, err
	}

	metrics.MessagesAppended.Inc()
	l.log.Debug().Str("room", roomID).Str("message_id", msg.ID).Msg("message appended")
	return &msg, nil
}

// List returns the room's message history in send order, empty if the
// room has never received a message. The history is already capped by
// construction; no further filtering or pagination applies.
func (l *MessageLog) List(ctx context.Context, roomID string) ([]Message, error) {
	if roomID == "" {
		return nil, ErrValidation
	}

	messages, err := l.loadMessages(ctx, roomMessagesKey(roomID))
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

func (l *MessageLog) loadMessages(ctx context.Context, key string) ([]Message, error) {
	data, err := l.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, unavailable("get", key, err)
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	return messages, nil
}

func (l *MessageLog) saveMessages(ctx context.Context, key string, messages []Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return unavailable("encode", key, err)
	}
	if err := l.store.Set(ctx, key, data); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}
