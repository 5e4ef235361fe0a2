package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // per formationID
	GlobalClients map[*websocket.Conn]*Client            // catalog-wide feed
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// DurationEvent is pushed whenever the background consumer finishes
// propagating a duration update.
type DurationEvent struct {
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	Operation   string `json:"operation"`
	FormationID string `json:"formation_id,omitempty"`
}

// Register a client on one formation's feed.
func (h *Hub) Register(formationID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[formationID]; !ok {
		h.Clients[formationID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[formationID][conn] = client

	go h.readPump(formationID, conn)
	go h.writePump(formationID, conn)
}

// RegisterGlobal subscribes a client to every duration event.
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go h.readGlobalPump(conn)
	go h.writeGlobalPump(conn)
}

func (h *Hub) Broadcast(formationID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[formationID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// SendDurationUpdate pushes a duration event to the global feed and, when the
// formation is known, to that formation's feed.
func SendDurationUpdate(entityType, entityID, operation, formationID string) {
	event := DurationEvent{
		EntityType:  entityType,
		EntityID:    entityID,
		Operation:   operation,
		FormationID: formationID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastGlobal(data)
	if formationID != "" {
		H.Broadcast(formationID, data)
	}
}

func (h *Hub) Unregister(formationID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[formationID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, formationID)
		}
	}
}

func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

func (h *Hub) readPump(formationID string, conn *websocket.Conn) {
	defer h.Unregister(formationID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(formationID string, conn *websocket.Conn) {
	client := h.Clients[formationID][conn]
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func (h *Hub) readGlobalPump(conn *websocket.Conn) {
	defer h.UnregisterGlobal(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writeGlobalPump(conn *websocket.Conn) {
	client := h.GlobalClients[conn]
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
