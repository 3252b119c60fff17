package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/core"
)

// ImagePlaceholder is substituted for the body of image-only messages
// before they reach the message log.
const ImagePlaceholder = "[image]"

// MessageHandlers provides HTTP handlers for room message history.
type MessageHandlers struct {
	messages *core.MessageLog
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(messages *core.MessageLog, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		messages: messages,
		log:      logger,
	}
}

// AppendMessageRequest represents the send message request body.
type AppendMessageRequest struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
}

// Append stores a new message in the room and returns it.
// POST /api/rooms/:roomId/messages
func (h *MessageHandlers) Append(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid append message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Message == "" && req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message or imageUrl required"})
		return
	}
	body := req.Message
	if body == "" {
		body = ImagePlaceholder
	}

	roomID := c.Param("roomId")
	msg, err := h.messages.Append(c.Request.Context(), roomID, userID, username, body, req.ImageURL)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Str("user", userID).Msg("failed to append message")
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// List returns the room's retained message history in send order.
// GET /api/rooms/:roomId/messages
func (h *MessageHandlers) List(c *gin.Context) {
	roomID := c.Param("roomId")
	messages, err := h.messages.List(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list messages")
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// writeCoreError maps domain errors to HTTP responses.
func writeCoreError(c *gin.Context, err error) {
	var decodeErr *core.DecodeError
	switch {
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or empty required field"})
	case errors.Is(err, core.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "corrupt stored data"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
