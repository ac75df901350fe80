package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the connection to the room of one fixture:
// /ws/fixtures/{fixtureID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Printf("Failed to upgrade connection for fixture %d: %v", fixtureID, err)
		return
	}

	client := realtime.NewClient(h.hub, conn, realtime.RoomForFixture(fixtureID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
