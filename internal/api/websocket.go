package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/logging"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WebSocket message types for the upload event stream
const (
	// Client -> Server messages
	MsgTypePing          = "ping"
	MsgTypeUploadsList   = "uploads:list"
	MsgTypeUploadDismiss = "upload:dismiss"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeUploads   = "uploads"
	MsgTypeAck       = "ack"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// EventSource is the subscribe side of events.Broadcaster.
type EventSource interface {
	Subscribe() chan events.Event
	Unsubscribe(ch chan events.Event)
}

// WebSocketHandler pushes upload and collection events to clients.
type WebSocketHandler struct {
	source   EventSource
	uploads  UploadManager
	upgrader websocket.Upgrader
	maxRead  int64
	log      *zap.Logger
}

// NewWebSocketHandler creates a new WebSocket event handler. Incoming
// messages larger than maxMessageKiB are rejected.
func NewWebSocketHandler(source EventSource, uploads UploadManager, maxMessageKiB int) *WebSocketHandler {
	if maxMessageKiB <= 0 {
		maxMessageKiB = 64
	}
	return &WebSocketHandler{
		source:  source,
		uploads: uploads,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		maxRead: int64(maxMessageKiB) * 1024,
		log:     logging.Named("websocket"),
	}
}

// HandleWebSocket upgrades the connection and streams events until the
// client goes away.
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already replied
		wsh.log.Debug("upgrade failed", zap.Error(err))
		return nil
	}
	defer ws.Close()

	wsh.log.Info("client connected", zap.String("remote", c.RealIP()))

	sub := wsh.source.Subscribe()
	defer wsh.source.Unsubscribe(sub)

	out := make(chan WSMessage, 16)
	writerDone := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(writerDone)
		wsh.writeLoop(ws, sub, out, stop)
	}()

	send := func(msg WSMessage) bool {
		msg.Timestamp = time.Now().UnixMilli()
		select {
		case out <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	send(WSMessage{Type: MsgTypeConnected, Payload: mustJSON(wsh.uploads.List())})

	ws.SetReadLimit(wsh.maxRead)
	ws.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsh.log.Warn("connection error", zap.Error(err))
			}
			break
		}
		ws.SetReadDeadline(time.Now().Add(wsPongWait))

		if !send(wsh.reply(msg)) {
			break
		}
	}

	close(stop)
	<-writerDone
	wsh.log.Info("client disconnected", zap.String("remote", c.RealIP()))
	return nil
}

// reply answers one client message.
func (wsh *WebSocketHandler) reply(msg WSMessage) WSMessage {
	switch msg.Type {
	case MsgTypePing:
		return WSMessage{Type: MsgTypePong, ID: msg.ID}
	case MsgTypeUploadsList:
		return WSMessage{Type: MsgTypeUploads, ID: msg.ID, Payload: mustJSON(wsh.uploads.List())}
	case MsgTypeUploadDismiss:
		if msg.ID == "" {
			return errorMessage(msg.ID, "missing upload id", "INVALID_PAYLOAD")
		}
		if !wsh.uploads.Dismiss(msg.ID) {
			return errorMessage(msg.ID, "upload not found: "+msg.ID, "NOT_FOUND")
		}
		return WSMessage{Type: MsgTypeAck, ID: msg.ID}
	default:
		return errorMessage(msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
	}
}

// writeLoop is the only writer of ws. It forwards broadcast events and
// replies, and pings the client periodically.
func (wsh *WebSocketHandler) writeLoop(ws *websocket.Conn, sub <-chan events.Event, out <-chan WSMessage, stop <-chan struct{}) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(msg WSMessage) bool {
		ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := ws.WriteJSON(msg); err != nil {
			wsh.log.Debug("write failed", zap.Error(err))
			// unblock the reader
			ws.Close()
			return false
		}
		return true
	}

	for {
		select {
		case <-stop:
			ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			msg := WSMessage{Type: ev.Type, ID: ev.ID, Payload: mustJSON(ev.Data), Timestamp: ev.Timestamp}
			if !write(msg) {
				return
			}
		case msg := <-out:
			if !write(msg) {
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				ws.Close()
				return
			}
		}
	}
}

func errorMessage(id, message, code string) WSMessage {
	return WSMessage{
		Type:    MsgTypeError,
		ID:      id,
		Payload: mustJSON(WSErrorResponse{Message: message, Code: code}),
	}
}

func mustJSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
