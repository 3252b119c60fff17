package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/core"
)

// RoomHandlers provides HTTP handlers for the room catalog.
type RoomHandlers struct {
	catalog *core.Catalog
	log     *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(catalog *core.Catalog, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		catalog: catalog,
		log:     logger,
	}
}

// ListRooms returns the static room catalog.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}
