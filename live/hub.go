package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to dashboard and kitchen clients.
const (
	EventOrderCreated  = "order_created"
	EventOrderUpdate   = "order_update"
	EventPaymentUpdate = "payment_update"
	EventTableUpdate   = "table_update"
	EventAgingUpdate   = "aging_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	tenantID string
	role     string
}

// Hub holds every connected dashboard socket keyed by connection. Messages
// fan out per tenant so restaurants never see each other's traffic.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

func RegisterClient(conn *websocket.Conn, tenantID, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{tenantID: tenantID, role: role}
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastToTenant sends a message to every socket of one tenant.
func BroadcastToTenant(tenantID string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn, cl := range hub.clients {
		if cl.tenantID != tenantID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
