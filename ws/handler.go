package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dev only, tighten in production
	},
}

func sendJSON(conn *websocket.Conn, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("WebSocket write error:", err)
	}
}

// HandleFormationDurationWebSocket streams duration events for one formation.
func HandleFormationDurationWebSocket(c *gin.Context) {
	formationID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	log.Printf("Duration WS connected: formationID=%s\n", formationID)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to formation " + formationID})
	H.Register(formationID, conn)
}

// HandleDurationWebSocket streams every duration event.
func HandleDurationWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	log.Println("Duration WS connected: global")

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to duration feed"})
	H.RegisterGlobal(conn)
}
