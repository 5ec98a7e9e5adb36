package http

import (
	"net/http"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

// Presence is the read side of the presence coordinator.
type Presence interface {
	Snapshot(room domain.RoomID) ([]core.PresenceEntry, bool)
	Stats() (rooms, connections int)
	ListRooms() []core.RoomInfo
}

type Handlers struct {
	Presence   Presence
	ICEServers []webrtc.ICEServer
}

type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
	Users  int    `json:"users"`
}

type RoomResponse struct {
	RoomID domain.RoomID        `json:"roomId"`
	Users  []core.PresenceEntry `json:"users"`
	Count  int                  `json:"count"`
}

func (h *Handlers) Health(c *gin.Context) {
	rooms, users := h.Presence.Stats()
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Rooms: rooms, Users: users})
}

func (h *Handlers) RoomInfo(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	users, ok := h.Presence.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, RoomResponse{RoomID: id, Users: users, Count: len(users)})
}

func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Presence.ListRooms()})
}

func (h *Handlers) ICEConfig(c *gin.Context) {
	servers := h.ICEServers
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	c.JSON(http.StatusOK, gin.H{"iceServers": servers})
}

func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/rooms/:roomId", h.RoomInfo)
	r.GET("/api/rooms", h.ListRooms)
	r.GET("/api/ice", h.ICEConfig)
}
