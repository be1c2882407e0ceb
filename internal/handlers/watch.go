// internal/handlers/watch.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/mutantlabs/lobbyd/internal/lobby"
	"github.com/mutantlabs/lobbyd/internal/middleware"
	"github.com/mutantlabs/lobbyd/internal/notify"
)

// WatchHandler streams a lobby's lifecycle events over a WebSocket at
// /lobby/watch/{id}. Frames are the JSON events the engine publishes on the
// lobby's pubsub channel; the feed is read-only and best-effort, the
// persisted record stays the source of truth.
func (s *Server) WatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Rdb == nil {
			http.Error(w, "watching disabled", http.StatusNotImplemented)
			return
		}

		lobbyID := strings.TrimPrefix(r.URL.Path, "/lobby/watch/")
		if lobbyID == "" || strings.Contains(lobbyID, "/") {
			http.Error(w, "missing lobby id", http.StatusBadRequest)
			return
		}

		// Reject dead lobbies before upgrading.
		if _, err := s.Engine.Get(r.Context(), lobbyID); err != nil {
			if errors.Is(err, lobby.ErrLobbyNotFound) || errors.Is(err, lobby.ErrLobbyExpired) {
				http.Error(w, "lobby not found", http.StatusNotFound)
			} else {
				s.Log.WithError(err).Errorf("watch lookup %s", lobbyID)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"lobby-watch"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			s.Log.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		middleware.LogWatchConnect(s.Log, r.RemoteAddr, lobbyID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sub := s.Rdb.Subscribe(ctx, notify.ChannelFor(lobbyID))
		defer sub.Close()

		// Drain client frames so pongs and close frames are processed;
		// the feed itself is one-way.
		go func() {
			defer cancel()
			for {
				if _, _, err := c.Read(ctx); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		msgs := sub.Channel()

		var closeErr error
		for closeErr == nil {
			select {
			case <-ctx.Done():
				closeErr = ctx.Err()
			case msg, ok := <-msgs:
				if !ok {
					closeErr = errors.New("pubsub channel closed")
					break
				}
				writeCtx, wcancel := context.WithTimeout(ctx, 5*time.Second)
				closeErr = c.Write(writeCtx, websocket.MessageText, []byte(msg.Payload))
				wcancel()
			case <-ticker.C:
				pingCtx, pcancel := context.WithTimeout(ctx, 15*time.Second)
				closeErr = c.Ping(pingCtx)
				pcancel()
			}
		}

		middleware.LogWatchDisconnect(s.Log, r.RemoteAddr, lobbyID, closeErr)
		c.Close(websocket.StatusNormalClosure, "watch ended")
	}
}
