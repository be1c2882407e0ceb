// internal/handlers/join.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mutantlabs/lobbyd/internal/lobby"
	"github.com/mutantlabs/lobbyd/internal/models"
)

// ParseJoinPath validates a join-link path of the shape
// "{lobbyId:8 alnum}/{slot:8 alnum}/join" (no leading slash) and returns its
// segments. Malformed paths are the transport's problem; the engine only
// ever sees validated pairs.
func ParseJoinPath(path string) (lobbyID, slot string, ok bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		return "", "", false
	}
	if len(parts[0]) != 8 || len(parts[1]) != 8 || parts[2] != "join" {
		return "", "", false
	}
	if !isAlnum(parts[0]) || !isAlnum(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// JoinLinkHandler redeems a personal invite link. Responses are plain text
// aimed at whoever clicked the link in a chat client: expected outcomes like
// "already joined" and "lobby is full" read as friendly confirmations, only
// permission failures and infrastructure errors use error status codes.
func (s *Server) JoinLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Telegram prefetches links to build previews; answer those
		// with a bare OK so a preview never consumes the invite.
		if strings.HasPrefix(r.Header.Get("User-Agent"), "Telegram") {
			plain(w, http.StatusOK, "ok")
			return
		}

		lobbyID, slot, ok := ParseJoinPath(strings.TrimPrefix(r.URL.Path, "/"))
		if !ok {
			plain(w, http.StatusNotFound, "Not found.")
			return
		}

		identity, err := s.Engine.ResolveSlot(r.Context(), lobbyID, slot)
		if err != nil {
			switch {
			case errors.Is(err, lobby.ErrSlotNotFound):
				plain(w, http.StatusNotFound, "Lobby slot not found.")
			case errors.Is(err, lobby.ErrLobbyNotFound), errors.Is(err, lobby.ErrLobbyExpired):
				plain(w, http.StatusNotFound, "Lobby not found.")
			default:
				s.Log.WithError(err).Errorf("resolve slot %s/%s", lobbyID, slot)
				plain(w, http.StatusInternalServerError, "Error")
			}
			return
		}

		_, err = s.Engine.Join(r.Context(), lobbyID, identity)
		switch {
		case err == nil:
			plain(w, http.StatusOK, fmt.Sprintf("%s joined the lobby.", models.DisplayName(identity)))
		case errors.Is(err, lobby.ErrAlreadyJoined):
			plain(w, http.StatusOK, "User already joined lobby.")
		case errors.Is(err, lobby.ErrLobbyFull):
			plain(w, http.StatusOK, "Lobby is full.")
		case errors.Is(err, lobby.ErrPermissionDenied):
			plain(w, http.StatusForbidden, "Not a public lobby.")
		case errors.Is(err, lobby.ErrLobbyNotFound), errors.Is(err, lobby.ErrLobbyExpired):
			plain(w, http.StatusNotFound, "Lobby not found.")
		default:
			// Contention and store outages present as a generic
			// failure; the cause stays in the log.
			s.Log.WithError(err).Errorf("join %s as %s", lobbyID, models.DisplayName(identity))
			plain(w, http.StatusInternalServerError, "Error")
		}
	}
}

func plain(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	fmt.Fprint(w, msg)
}
