package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"neurostring/neurostring"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = pongWait / 2

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocket serializes writes to a connection.
type WebSocket struct {
	conn  *websocket.Conn
	mutex *deadlock.Mutex
}

func (ws *WebSocket) WriteJSON(v interface{}) error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.conn.WriteMessage(websocket.TextMessage, b)
}

func (ws *WebSocket) WriteMessage(t int, b []byte) error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.conn.WriteMessage(t, b)
}

// handleWebsocket streams a state snapshot on connect and then every wsInterval. Anything the
// client sends is ignored.
func (s *Server) handleWebsocket() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			neurostring.LogCLI("failed to upgrade websocket", 3)
			return
		}
		ws := &WebSocket{conn: conn, mutex: &deadlock.Mutex{}}
		done := make(chan struct{})

		// reader
		go func() {
			defer close(done)
			conn.SetReadLimit(maxMessageSize)
			conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				conn.SetReadDeadline(time.Now().Add(pongWait))
				return nil
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						neurostring.LogCLI("unexpected close of websocket", 3)
					}
					return
				}
			}
		}()

		// writer
		go func() {
			ping := time.NewTicker(pingPeriod)
			snapshot := time.NewTicker(s.wsInterval)
			defer func() {
				ping.Stop()
				snapshot.Stop()
				conn.Close()
			}()
			if err := ws.WriteJSON(s.core.State()); err != nil {
				return
			}
			for {
				select {
				case <-done:
					return
				case <-snapshot.C:
					if err := ws.WriteJSON(s.core.State()); err != nil {
						neurostring.LogCLI(err.Error(), 3)
						return
					}
				case <-ping.C:
					if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
						neurostring.LogCLI("couldn't ping, exterminating socket", 3)
						return
					}
				}
			}
		}()
	}
}
