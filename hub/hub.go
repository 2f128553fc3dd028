package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mymichelin/momentos-app/models"
)

// Event types. Every state topic carries a full snapshot of its collection;
// a late, stale snapshot is simply superseded by the next publish.
const (
	EventTableSync       = "table_sync"
	EventMenuSync        = "menu_sync"
	EventLogSync         = "log_sync"
	EventNotify          = "notify"
	EventDashboardUpdate = "dashboard_update"
)

const (
	// sendBuffer is the per-connection outbound queue. A view that falls
	// this far behind is dropped instead of stalling the bus.
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var ErrRoleFull = errors.New("connection limit reached for role")

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Alert is the perceptible side of a notification: the client renders the
// sound ramp (Hz, descending two-tone) and vibration pattern (ms) as-is.
// Sound is stripped before delivery to muted connections.
type Alert struct {
	TargetRole string `json:"target_role"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Sound      []int  `json:"sound,omitempty"`
	Vibrate    []int  `json:"vibrate,omitempty"`
}

var (
	alertSound   = []int{880, 440}
	alertVibrate = []int{200, 100, 200}
)

type client struct {
	role         string
	soundEnabled bool
	send         chan []byte
}

// SyncHub holds every connected device view (sala, cozinha, admin) and
// replicates snapshots and alerts to them. Publishing only enqueues; each
// connection has its own writer goroutine, so a stalled device can never
// block the state transition that published.
type SyncHub struct {
	clients map[*websocket.Conn]*client
	limits  map[string]int
	mutex   sync.Mutex
}

var syncHub = SyncHub{
	clients: make(map[*websocket.Conn]*client),
	limits:  make(map[string]int),
}

// SetRoleLimit caps concurrent connections for a role; 0 means unlimited.
func SetRoleLimit(role string, max int) {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	syncHub.limits[role] = max
}

// RegisterClient adds a connection under its role, sound on by default, and
// starts its writer.
func RegisterClient(conn *websocket.Conn, role string) error {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()

	if limit := syncHub.limits[role]; limit > 0 {
		count := 0
		for _, cl := range syncHub.clients {
			if cl.role == role {
				count++
			}
		}
		if count >= limit {
			return ErrRoleFull
		}
	}

	cl := &client{role: role, soundEnabled: true, send: make(chan []byte, sendBuffer)}
	syncHub.clients[conn] = cl
	go writePump(conn, cl.send)
	return nil
}

// UnregisterClient -> drop a connection; its writer closes the socket
func UnregisterClient(conn *websocket.Conn) {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	dropLocked(conn)
}

// dropLocked removes one connection and closes its send channel exactly
// once; safe to call for connections already gone.
func dropLocked(conn *websocket.Conn) {
	if cl, ok := syncHub.clients[conn]; ok {
		delete(syncHub.clients, conn)
		close(cl.send)
	}
}

// SetSound toggles the audible channel for one connection. The silent
// system alert still fires regardless.
func SetSound(conn *websocket.Conn, enabled bool) {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	if cl, ok := syncHub.clients[conn]; ok {
		cl.soundEnabled = enabled
	}
}

// ClientCount -> connections currently registered for a role
func ClientCount(role string) int {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	count := 0
	for _, cl := range syncHub.clients {
		if cl.role == role {
			count++
		}
	}
	return count
}

// BroadcastTables -> full roster snapshot to every view
func BroadcastTables(tables []models.Table) {
	broadcast(Message{Event: EventTableSync, Data: tables})
}

// BroadcastMenus -> full menu list snapshot
func BroadcastMenus(menus []models.Menu) {
	broadcast(Message{Event: EventMenuSync, Data: menus})
}

// BroadcastLogs -> full archive snapshot
func BroadcastLogs(logs []models.HistoricalService) {
	broadcast(Message{Event: EventLogSync, Data: logs})
}

// BroadcastDashboard -> live elapsed/delay data for the admin dashboard
func BroadcastDashboard(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

// Notify delivers a role-targeted alert to matching connections only.
// Muted connections get the alert without the sound cue. Failures are
// swallowed: notification delivery never blocks a transition.
func Notify(targetRole, title, body string) {
	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()

	for conn, cl := range syncHub.clients {
		if cl.role != targetRole {
			continue
		}
		alert := Alert{
			TargetRole: targetRole,
			Title:      title,
			Body:       body,
			Vibrate:    alertVibrate,
		}
		if cl.soundEnabled {
			alert.Sound = alertSound
		}
		data, err := json.Marshal(Message{Event: EventNotify, Data: alert})
		if err != nil {
			log.Printf("Error marshaling notify message: %v", err)
			continue
		}
		enqueueLocked(conn, cl, data)
	}
}

// Send pushes one message to a single connection, used for the initial
// state push right after registration.
func Send(conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	if cl, ok := syncHub.clients[conn]; ok {
		enqueueLocked(conn, cl, data)
	}
}

func broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	syncHub.mutex.Lock()
	defer syncHub.mutex.Unlock()
	for conn, cl := range syncHub.clients {
		enqueueLocked(conn, cl, data)
	}
}

// enqueueLocked hands one frame to the connection's writer without ever
// blocking. A full queue means the view stopped consuming; it is dropped
// on the spot, delivery stays at-most-once.
func enqueueLocked(conn *websocket.Conn, cl *client, data []byte) {
	select {
	case cl.send <- data:
	default:
		log.Printf("Dropping stalled %s view, send queue full", cl.role)
		dropLocked(conn)
	}
}

// writePump drains one connection's queue onto the socket. On a write
// error or missed deadline the connection is unregistered; the socket is
// closed on the way out, which also unblocks the connection's reader.
func writePump(conn *websocket.Conn, send <-chan []byte) {
	defer conn.Close()

	for data := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message: %v", err)
			UnregisterClient(conn)
			for range send {
			}
			return
		}
	}
}
