// internal/notify/fanout_test.go
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutantlabs/lobbyd/internal/config"
)

type telegramCall struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type webhookCall struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// fakeChat records everything the worker would send to Telegram and Discord.
type fakeChat struct {
	mu       sync.Mutex
	telegram []telegramCall
	webhooks []webhookCall
}

func (fc *fakeChat) telegramServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call telegramCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		fc.mu.Lock()
		fc.telegram = append(fc.telegram, call)
		fc.mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
}

func (fc *fakeChat) webhookServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call webhookCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		fc.mu.Lock()
		fc.webhooks = append(fc.webhooks, call)
		fc.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
}

func newTestFanout(t *testing.T) (*Fanout, *fakeChat) {
	t.Helper()
	fc := &fakeChat{}
	tg := fc.telegramServer(t)
	hook := fc.webhookServer(t)
	t.Cleanup(tg.Close)
	t.Cleanup(hook.Close)

	cfg := &config.Config{
		APIBase: "https://lobby.example.com/",
		Users: map[string]config.Contact{
			"alice#1001": {Telegram: 11},
			"bob#1002":   {Telegram: 22},
			"carol#1003": {}, // known but unreachable
		},
		Telegram: config.TelegramConfig{Token: "test-token", Channels: []int64{-100500}},
		Discord:  config.DiscordConfig{Webhooks: []string{hook.URL}},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	f := NewFanout(nil, "", cfg, logger)
	f.telegram.baseURL = tg.URL
	return f, fc
}

func TestDeliverCreated(t *testing.T) {
	f, fc := newTestFanout(t)

	f.Deliver(context.Background(), Event{
		Kind:      KindCreated,
		LobbyID:   "abcd1234",
		LobbyName: "zesty-lobby",
		Members:   []string{"alice#1001"},
		Slots: map[string]string{
			"tokbob00": "bob#1002",
			"tokcar00": "carol#1003",
		},
		Timestamp: time.Now().Unix(),
	})

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// One channel announcement plus one DM; carol has no contact and is
	// skipped without failing the rest.
	require.Len(t, fc.telegram, 2)

	byChat := make(map[int64]string)
	for _, call := range fc.telegram {
		byChat[call.ChatID] = call.Text
	}
	assert.Equal(t, "alice created zesty-lobby", byChat[-100500])
	assert.Equal(t, "[Join zesty-lobby!](https://lobby.example.com/abcd1234/tokbob00/join)", byChat[22])

	assert.Empty(t, fc.webhooks)
}

func TestDeliverJoined(t *testing.T) {
	f, fc := newTestFanout(t)

	f.Deliver(context.Background(), Event{
		Kind:      KindJoined,
		LobbyID:   "abcd1234",
		LobbyName: "zesty-lobby",
		Identity:  "bob#1002",
		Members:   []string{"alice#1001", "bob#1002"},
	})

	fc.mu.Lock()
	defer fc.mu.Unlock()

	require.Len(t, fc.webhooks, 1)
	assert.Equal(t, "zesty-lobby", fc.webhooks[0].Username)
	assert.Equal(t, "bob joined", fc.webhooks[0].Content)

	require.Len(t, fc.telegram, 1)
	assert.Equal(t, int64(-100500), fc.telegram[0].ChatID)
	assert.Equal(t, "bob joined `zesty-lobby`", fc.telegram[0].Text)
}

func TestDeliverUnknownKindIsDropped(t *testing.T) {
	f, fc := newTestFanout(t)
	f.Deliver(context.Background(), Event{Kind: "renamed", LobbyID: "abcd1234"})

	fc.mu.Lock()
	defer fc.mu.Unlock()
	assert.Empty(t, fc.telegram)
	assert.Empty(t, fc.webhooks)
}
