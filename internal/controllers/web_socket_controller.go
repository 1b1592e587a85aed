package controllers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"perundhu/internal/models"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// TrackingHub fans crowd-reported sightings out to every client watching a
// bus. Commuters connect with the bus id they care about; each new sighting
// reported over REST is broadcast to that bus's watchers.
type TrackingHub struct {
	busClients map[uint]map[*websocket.Conn]bool
	broadcast  chan models.BusSighting
	mu         sync.Mutex
}

func NewTrackingHub() *TrackingHub {
	hub := &TrackingHub{
		busClients: make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan models.BusSighting, 100),
	}
	go hub.run()
	return hub
}

func (h *TrackingHub) run() {
	for sighting := range h.broadcast {
		h.mu.Lock()
		clients := h.busClients[sighting.BusID]
		for conn := range clients {
			if err := conn.WriteJSON(sighting); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithField("bus_id", sighting.BusID).Info("watcher disconnected during broadcast")
				} else {
					logrus.WithError(err).WithField("bus_id", sighting.BusID).Warn("sighting broadcast failed")
				}
				delete(clients, conn)
				conn.Close()
			}
		}
		if len(clients) == 0 {
			delete(h.busClients, sighting.BusID)
		}
		h.mu.Unlock()
	}
}

func (h *TrackingHub) register(busID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.busClients[busID]; !ok {
		h.busClients[busID] = make(map[*websocket.Conn]bool)
	}
	h.busClients[busID][conn] = true
	logrus.WithField("bus_id", busID).Info("watcher registered for live sightings")
}

func (h *TrackingHub) unregister(busID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.busClients[busID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.busClients, busID)
		}
	}
	logrus.WithField("bus_id", busID).Info("watcher unregistered")
}

// Publish queues a sighting for broadcast. Non-blocking; a saturated channel
// drops the update since the next report supersedes it anyway.
func (h *TrackingHub) Publish(sighting models.BusSighting) {
	select {
	case h.broadcast <- sighting:
	default:
		logrus.Warn("sighting broadcast channel full, dropping update")
	}
}

// HandleTrackingWebSocket answers GET /ws/tracking?bus_id=N. The connection
// is read-only from the client side; unexpected messages are ignored.
func (h *TrackingHub) HandleTrackingWebSocket(c *gin.Context) {
	busID, err := strconv.ParseUint(c.Query("bus_id"), 10, 64)
	if err != nil || busID == 0 {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_INPUT", "bus_id query parameter is required"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.register(uint(busID), conn)
	defer h.unregister(uint(busID), conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("bus_id", busID).Debug("watcher read error")
			}
			return
		}
	}
}
