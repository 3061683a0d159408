package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait   = 10 * time.Second
	wsSendBuffer  = 32
	wsMaxReadSize = 64 << 10
)

// wsTimeouts controls keep-alive. A peer that leaves a ping unanswered for
// longer than pong is dropped.
type wsTimeouts struct {
	ping time.Duration
	pong time.Duration
}

var defaultWSTimeouts = wsTimeouts{ping: 10 * time.Second, pong: 25 * time.Second}

func newUpgrader(isDev bool, origins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// allow all origins in dev or when no origins are configured
			if isDev || len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// wsConn serializes writes to one websocket through a single writer goroutine.
type wsConn struct {
	conn     *websocket.Conn
	send     chan any
	timeouts wsTimeouts
}

// newWSConn arms the read deadline; every pong pushes it forward.
func newWSConn(conn *websocket.Conn, timeouts wsTimeouts) *wsConn {
	conn.SetReadLimit(wsMaxReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(timeouts.pong))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.pong))
	})
	return &wsConn{conn: conn, send: make(chan any, wsSendBuffer), timeouts: timeouts}
}

// trySend queues v without blocking. It reports false when the buffer is full.
func (w *wsConn) trySend(v any) bool {
	select {
	case w.send <- v:
		return true
	default:
		return false
	}
}

// enqueue queues v, waiting until there is room or ctx is done.
func (w *wsConn) enqueue(ctx context.Context, v any) bool {
	select {
	case w.send <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// writeLoop writes queued values and keep-alive pings until ctx is done or a
// write fails, then cancels so the reader stops too.
func (w *wsConn) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(w.timeouts.ping)
	defer func() {
		ticker.Stop()
		cancel()
	}()

	for {
		select {
		case v := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := w.conn.WriteJSON(v); err != nil {
				slog.Debug("websocket write failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-ctx.Done():
			_ = w.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		}
	}
}
