// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mutantlabs/lobbyd/internal/auth"
	"github.com/mutantlabs/lobbyd/internal/lobby"
	"github.com/mutantlabs/lobbyd/internal/models"
)

// createLobbyRequest is the JSON body for POST /lobby/create. Zero values
// fall back to the configured defaults.
type createLobbyRequest struct {
	Invitees   []string `json:"invitees"`
	Public     bool     `json:"public"`
	Max        int      `json:"max"`
	TTLMinutes int      `json:"ttlMinutes"`
}

// lobbyResponse is the JSON shape returned for a lobby, with identities
// trimmed for display.
type lobbyResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Creator string    `json:"creator"`
	Members []string  `json:"members"`
	Max     int       `json:"max"`
	Public  bool      `json:"public"`
	Expires time.Time `json:"expires"`
}

func toLobbyResponse(l *models.Lobby) lobbyResponse {
	members := make([]string, 0, len(l.Joined))
	for _, m := range l.Joined {
		members = append(members, models.DisplayName(m))
	}
	return lobbyResponse{
		ID:      l.ID,
		Name:    l.Name,
		Creator: models.DisplayName(l.Creator),
		Members: members,
		Max:     l.Max,
		Public:  l.Public,
		Expires: l.Expires,
	}
}

// identityFromRequest authenticates the auth_token cookie and returns the
// identity it was minted for.
func (s *Server) identityFromRequest(r *http.Request) (string, error) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		return "", errors.New("missing auth_token")
	}
	return auth.VerifyToken(extractCookieToken(cookie, "auth_token"))
}

// CreateLobbyHandler opens a new lobby for an allow-listed creator.
func (s *Server) CreateLobbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		creator, err := s.identityFromRequest(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if !s.Cfg.KnownUser(creator) {
			http.Error(w, "unknown creator", http.StatusForbidden)
			return
		}

		var req createLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}
		if req.Max == 0 {
			req.Max = s.Cfg.Lobby.DefaultMax
		}
		ttl := s.Cfg.Lobby.DefaultTTL
		if req.TTLMinutes > 0 {
			ttl = time.Duration(req.TTLMinutes) * time.Minute
		}

		l, err := s.Engine.CreateLobby(r.Context(), creator, req.Invitees, req.Public, req.Max, ttl)
		if err != nil {
			switch {
			case errors.Is(err, lobby.ErrInvalidCapacity), errors.Is(err, lobby.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				s.Log.WithError(err).Error("create lobby")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toLobbyResponse(l))
	}
}

// ViewLobbyHandler returns the current roster for /lobby/view/{id}.
func (s *Server) ViewLobbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.identityFromRequest(r); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		lobbyID := strings.TrimPrefix(r.URL.Path, "/lobby/view/")
		if lobbyID == "" || strings.Contains(lobbyID, "/") {
			http.Error(w, "missing lobby id", http.StatusBadRequest)
			return
		}

		l, err := s.Engine.Get(r.Context(), lobbyID)
		if err != nil {
			switch {
			case errors.Is(err, lobby.ErrLobbyNotFound), errors.Is(err, lobby.ErrLobbyExpired):
				http.Error(w, "lobby not found", http.StatusNotFound)
			default:
				s.Log.WithError(err).Errorf("view lobby %s", lobbyID)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toLobbyResponse(l))
	}
}
