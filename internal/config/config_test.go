// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
api_base: https://lobby.example.com
listen_addr: ":9090"
users:
  alice#1001:
    telegram: 111
  bob#1002:
    telegram: 222
telegram:
  token: tg-token
  channels: [-100123]
discord:
  webhooks:
    - https://discord.com/api/webhooks/1/x
lobby:
  default_max: 8
  default_ttl: 90m
  join_retries: 7
  store_timeout: 2s
  name_suffix: "-party"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://lobby.example.com/", cfg.APIBase, "trailing slash is added")
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, int64(111), cfg.Users["alice#1001"].Telegram)
	assert.Equal(t, "tg-token", cfg.Telegram.Token)
	assert.Equal(t, []int64{-100123}, cfg.Telegram.Channels)
	assert.Len(t, cfg.Discord.Webhooks, 1)
	assert.Equal(t, 8, cfg.Lobby.DefaultMax)
	assert.Equal(t, 90*time.Minute, cfg.Lobby.DefaultTTL)
	assert.Equal(t, 7, cfg.Lobby.JoinRetries)
	assert.Equal(t, 2*time.Second, cfg.Lobby.StoreTimeout)
	assert.Equal(t, "-party", cfg.Lobby.NameSuffix)

	assert.True(t, cfg.KnownUser("alice#1001"))
	assert.False(t, cfg.KnownUser("mallory#9999"))
	assert.Equal(t, "https://lobby.example.com/abcd1234/efgh5678/join", cfg.InviteURL("abcd1234", "efgh5678"))
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api_base: https://lobby.example.com/
users:
  alice#1001:
    telegram: 111
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.Lobby.DefaultMax)
	assert.Equal(t, 60*time.Minute, cfg.Lobby.DefaultTTL)
	assert.Equal(t, 5, cfg.Lobby.JoinRetries)
	assert.Equal(t, 5*time.Second, cfg.Lobby.StoreTimeout)
	assert.Equal(t, "-lobby", cfg.Lobby.NameSuffix)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing api_base": `
users:
  alice#1001:
    telegram: 111
`,
		"empty users": `
api_base: https://lobby.example.com/
`,
		"bad duration": `
api_base: https://lobby.example.com/
users:
  alice#1001:
    telegram: 111
lobby:
  default_ttl: soon
`,
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
api_base: https://override.example.com/
users:
  alice#1001:
    telegram: 111
`)
	t.Setenv("LOBBYD_CONFIG", path)

	cfg, err := Load("does-not-exist.yml")
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com/", cfg.APIBase)
}
