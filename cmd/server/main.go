// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mutantlabs/lobbyd/internal/auth"
	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/handlers"
	"github.com/mutantlabs/lobbyd/internal/lobby"
	"github.com/mutantlabs/lobbyd/internal/middleware"
	"github.com/mutantlabs/lobbyd/internal/notify"
	"github.com/mutantlabs/lobbyd/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if priv, pub := os.Getenv("AUTH_PRIVATE_KEY"), os.Getenv("AUTH_PUBLIC_KEY"); priv != "" && pub != "" {
		err = auth.InitFromPath(priv, pub)
	} else {
		err = auth.Init()
	}
	if err != nil {
		log.Fatalf("auth init: %v", err)
	}

	ctx := context.Background()

	// The persisted record is the single source of truth; Postgres when
	// configured, otherwise a process-local store for development.
	var st store.Store
	if os.Getenv("DATABASE_URL") != "" {
		pg, err := store.ConnectPostgres(ctx)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema: %v", err)
		}
		defer pg.Close()
		st = pg
		logger.Info("using postgres lobby store")
	} else {
		st = store.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory lobby store")
	}

	// Notifications ride a Redis queue consumed by cmd/notifier. Running
	// without Redis is allowed; events are then dropped.
	var sink notify.Sink = notify.NopSink{}
	rdb, err := notify.ConnectRedis(ctx)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, notifications disabled")
		rdb = nil
	} else {
		sink = notify.NewRedisSink(rdb, os.Getenv("LOBBYD_QUEUE_NAME"))
	}

	engine := lobby.NewEngine(cfg, st, sink, logger)
	srv := handlers.NewServer(engine, cfg, logger, rdb)

	mux := http.NewServeMux()

	// lobby API
	mux.Handle("/lobby/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		srv.CreateLobbyHandler(),
	)))
	mux.Handle("/lobby/view/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		srv.ViewLobbyHandler(),
	)))
	mux.Handle("/lobby/watch/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		srv.WatchHandler(),
	)))

	// everything else is a join link
	mux.Handle("/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		srv.JoinLinkHandler(),
	)))

	addr := cfg.ListenAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
