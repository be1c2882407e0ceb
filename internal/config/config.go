// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Contact holds the delivery addresses for one known identity.
type Contact struct {
	// Telegram is the chat ID used for direct-message invite delivery.
	Telegram int64 `yaml:"telegram"`
}

// TelegramConfig configures outbound Telegram delivery.
type TelegramConfig struct {
	Token    string  `yaml:"token"`
	Channels []int64 `yaml:"channels"`
}

// DiscordConfig configures outbound Discord webhook delivery.
type DiscordConfig struct {
	Webhooks []string `yaml:"webhooks"`
}

// LobbyConfig holds lobby engine defaults and bounds.
type LobbyConfig struct {
	// DefaultMax is the capacity used when a create request omits one.
	DefaultMax int `yaml:"default_max"`
	// DefaultTTL is the lifetime used when a create request omits one.
	DefaultTTL time.Duration `yaml:"default_ttl"`
	// JoinRetries bounds the optimistic-concurrency retry loop.
	JoinRetries int `yaml:"join_retries"`
	// StoreTimeout caps every individual store call.
	StoreTimeout time.Duration `yaml:"store_timeout"`
	// NameSuffix is appended to generated display names.
	NameSuffix string `yaml:"name_suffix"`
}

// UnmarshalYAML parses the duration fields from strings like "60m". Absent
// fields keep whatever value the receiver already holds, so defaults survive
// a partial config.
func (lc *LobbyConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		DefaultMax   int    `yaml:"default_max"`
		DefaultTTL   string `yaml:"default_ttl"`
		JoinRetries  int    `yaml:"join_retries"`
		StoreTimeout string `yaml:"store_timeout"`
		NameSuffix   string `yaml:"name_suffix"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.DefaultMax != 0 {
		lc.DefaultMax = raw.DefaultMax
	}
	if raw.JoinRetries != 0 {
		lc.JoinRetries = raw.JoinRetries
	}
	if raw.NameSuffix != "" {
		lc.NameSuffix = raw.NameSuffix
	}
	if raw.DefaultTTL != "" {
		d, err := time.ParseDuration(raw.DefaultTTL)
		if err != nil {
			return fmt.Errorf("lobby.default_ttl: %w", err)
		}
		lc.DefaultTTL = d
	}
	if raw.StoreTimeout != "" {
		d, err := time.ParseDuration(raw.StoreTimeout)
		if err != nil {
			return fmt.Errorf("lobby.store_timeout: %w", err)
		}
		lc.StoreTimeout = d
	}
	return nil
}

// Config is the full static configuration. It is loaded once at startup and
// treated as read-only for the lifetime of the process.
type Config struct {
	// APIBase is the public base URL join links are built from,
	// e.g. "https://lobby.example.com/". Must end with a slash.
	APIBase string `yaml:"api_base"`

	// ListenAddr is the HTTP bind address for cmd/server.
	ListenAddr string `yaml:"listen_addr"`

	// Users is the known-users allow-list: identity -> delivery addresses.
	// It doubles as the candidate pool for slot allocation.
	Users map[string]Contact `yaml:"users"`

	Telegram TelegramConfig `yaml:"telegram"`
	Discord  DiscordConfig  `yaml:"discord"`
	Lobby    LobbyConfig    `yaml:"lobby"`
}

// KnownUser reports whether identity appears in the allow-list.
func (c *Config) KnownUser(identity string) bool {
	_, ok := c.Users[identity]
	return ok
}

// InviteURL builds the public join link for a lobby slot.
func (c *Config) InviteURL(lobbyID, slot string) string {
	return c.APIBase + lobbyID + "/" + slot + "/join"
}

// Load reads and validates the YAML config at path. The LOBBYD_CONFIG
// environment variable overrides path when set.
func Load(path string) (*Config, error) {
	if env := os.Getenv("LOBBYD_CONFIG"); env != "" {
		path = env
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ListenAddr: ":8080",
		Lobby: LobbyConfig{
			DefaultMax:   5,
			DefaultTTL:   60 * time.Minute,
			JoinRetries:  5,
			StoreTimeout: 5 * time.Second,
			NameSuffix:   "-lobby",
		},
	}
}

func (c *Config) validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("api_base is required")
	}
	if c.APIBase[len(c.APIBase)-1] != '/' {
		c.APIBase += "/"
	}
	if len(c.Users) == 0 {
		return fmt.Errorf("users allow-list is empty")
	}
	if c.Lobby.DefaultMax < 1 {
		return fmt.Errorf("lobby.default_max must be positive")
	}
	if c.Lobby.DefaultTTL <= 0 {
		return fmt.Errorf("lobby.default_ttl must be positive")
	}
	if c.Lobby.JoinRetries < 1 {
		return fmt.Errorf("lobby.join_retries must be positive")
	}
	if c.Lobby.StoreTimeout <= 0 {
		return fmt.Errorf("lobby.store_timeout must be positive")
	}
	return nil
}
