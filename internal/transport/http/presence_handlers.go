package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/core"
)

// PresenceHandlers provides HTTP handlers for room presence.
type PresenceHandlers struct {
	presence *core.PresenceTracker
	log      *zerolog.Logger
}

// NewPresenceHandlers creates a new presence handlers instance.
func NewPresenceHandlers(presence *core.PresenceTracker, logger *zerolog.Logger) *PresenceHandlers {
	return &PresenceHandlers{
		presence: presence,
		log:      logger,
	}
}

// Announce records the authenticated user as present in the room.
// POST /api/rooms/:roomId/users
func (h *PresenceHandlers) Announce(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	roomID := c.Param("roomId")
	entry, err := h.presence.Announce(c.Request.Context(), roomID, userID, username)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Str("user", userID).Msg("failed to announce presence")
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Withdraw removes the authenticated user from the room. Withdrawing
// when absent succeeds.
// DELETE /api/rooms/:roomId/users
func (h *PresenceHandlers) Withdraw(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	roomID := c.Param("roomId")
	if err := h.presence.Withdraw(c.Request.Context(), roomID, userID); err != nil {
		h.log.Error().Err(err).Str("room", roomID).Str("user", userID).Msg("failed to withdraw presence")
		writeCoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListActive returns the users currently active in the room.
// GET /api/rooms/:roomId/users
func (h *PresenceHandlers) ListActive(c *gin.Context) {
	roomID := c.Param("roomId")
	members, err := h.presence.ListActive(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list active users")
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
