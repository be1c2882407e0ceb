// internal/handlers/join_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/lobby"
	"github.com/mutantlabs/lobbyd/internal/models"
	"github.com/mutantlabs/lobbyd/internal/store"
)

func testServerConfig() *config.Config {
	return &config.Config{
		APIBase: "https://lobby.example.com/",
		Users: map[string]config.Contact{
			"alice#1001": {Telegram: 1},
			"bob#1002":   {Telegram: 2},
			"carol#1003": {Telegram: 3},
		},
		Lobby: config.LobbyConfig{
			DefaultMax:   5,
			DefaultTTL:   time.Hour,
			JoinRetries:  5,
			StoreTimeout: 5 * time.Second,
			NameSuffix:   "-lobby",
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testServerConfig()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	engine := lobby.NewEngine(cfg, store.NewMemoryStore(), nil, logger)
	return NewServer(engine, cfg, logger, nil)
}

func slotFor(t *testing.T, l *models.Lobby, identity string) string {
	t.Helper()
	for tok, id := range l.Slots {
		if id == identity {
			return tok
		}
	}
	t.Fatalf("no slot for %s", identity)
	return ""
}

func TestParseJoinPath(t *testing.T) {
	cases := []struct {
		path string
		ok   bool
	}{
		{"abcd1234/efgh5678/join", true},
		{"ABCD1234/e1f2g3h4/join", true},
		{"abcd1234/efgh5678/leave", false},
		{"abcd1234/efgh5678", false},
		{"abcd1234/efgh5678/join/extra", false},
		{"abcd123/efgh5678/join", false},
		{"abcd1234/efgh567/join", false},
		{"abcd-234/efgh5678/join", false},
		{"abcd1234/efgh_678/join", false},
		{"", false},
	}
	for _, tc := range cases {
		lobbyID, slot, ok := ParseJoinPath(tc.path)
		assert.Equal(t, tc.ok, ok, "path %q", tc.path)
		if tc.ok {
			assert.Len(t, lobbyID, 8)
			assert.Len(t, slot, 8)
		}
	}
}

func TestJoinLinkRedeemsSlot(t *testing.T) {
	s := newTestServer(t)
	l, err := s.Engine.CreateLobby(context.Background(), "alice#1001", nil, false, 5, time.Hour)
	require.NoError(t, err)
	slot := slotFor(t, l, "bob#1002")

	req := httptest.NewRequest(http.MethodGet, "/"+l.ID+"/"+slot+"/join", nil)
	w := httptest.NewRecorder()
	s.JoinLinkHandler()(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob joined the lobby.", w.Body.String())

	// Clicking the same link again is a friendly confirmation, not an error.
	w = httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/"+l.ID+"/"+slot+"/join", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User already joined lobby.", w.Body.String())

	got, err := s.Engine.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice#1001", "bob#1002"}, got.Joined)
}

func TestJoinLinkIgnoresTelegramPrefetch(t *testing.T) {
	s := newTestServer(t)
	l, err := s.Engine.CreateLobby(context.Background(), "alice#1001", nil, false, 5, time.Hour)
	require.NoError(t, err)
	slot := slotFor(t, l, "bob#1002")

	req := httptest.NewRequest(http.MethodGet, "/"+l.ID+"/"+slot+"/join", nil)
	req.Header.Set("User-Agent", "TelegramBot (like TwitterBot)")
	w := httptest.NewRecorder()
	s.JoinLinkHandler()(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	// The preview fetch must not consume the invite.
	got, err := s.Engine.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice#1001"}, got.Joined)
}

func TestJoinLinkNotFoundVariants(t *testing.T) {
	s := newTestServer(t)
	l, err := s.Engine.CreateLobby(context.Background(), "alice#1001", nil, false, 5, time.Hour)
	require.NoError(t, err)

	// Malformed path.
	w := httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/not/a/join/link", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found.", w.Body.String())

	// Well-formed but unknown lobby.
	w = httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/zzzz9999/zzzz9999/join", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Lobby not found.", w.Body.String())

	// Known lobby, unknown slot.
	w = httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/"+l.ID+"/zzzz9999/join", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Lobby slot not found.", w.Body.String())
}

func TestJoinLinkFullLobby(t *testing.T) {
	s := newTestServer(t)
	l, err := s.Engine.CreateLobby(context.Background(), "alice#1001", []string{"bob#1002"}, false, 2, time.Hour)
	require.NoError(t, err)
	slot := slotFor(t, l, "carol#1003")

	w := httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/"+l.ID+"/"+slot+"/join", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lobby is full.", w.Body.String())
}

func TestJoinLinkPrivateLobbyPermission(t *testing.T) {
	s := newTestServer(t)
	l, err := s.Engine.CreateLobby(context.Background(), "alice#1001", nil, false, 5, time.Hour)
	require.NoError(t, err)
	slot := slotFor(t, l, "carol#1003")

	// Drop carol from the allow-list after her slot was issued.
	delete(s.Cfg.Users, "carol#1003")

	w := httptest.NewRecorder()
	s.JoinLinkHandler()(w, httptest.NewRequest(http.MethodGet, "/"+l.ID+"/"+slot+"/join", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not a public lobby.", w.Body.String())
}
