// internal/handlers/server.go

// Package handlers is the HTTP transport over the lobby engine: the public
// join-link endpoint, the authenticated lobby API, and the live watch feed.
package handlers

import (
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/lobby"
)

// Server bundles the engine and its collaborators for the HTTP handlers.
type Server struct {
	Engine *lobby.Engine
	Cfg    *config.Config
	Log    *logrus.Logger

	// Rdb feeds the watch endpoint from the per-lobby pubsub channels.
	// Nil disables watching.
	Rdb *redis.Client
}

// NewServer assembles a handler server.
func NewServer(engine *lobby.Engine, cfg *config.Config, logger *logrus.Logger, rdb *redis.Client) *Server {
	return &Server{
		Engine: engine,
		Cfg:    cfg,
		Log:    logger,
		Rdb:    rdb,
	}
}

// extractCookieToken pulls a named cookie value out of a raw Cookie header.
func extractCookieToken(cookie, name string) string {
	parts := strings.Split(cookie, name+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
