// cmd/notifier/main.go is the asynchronous fan-out worker: it pops lobby
// lifecycle events from the Redis queue and delivers channel announcements,
// Discord webhook posts, and per-candidate Telegram invite links.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/notify"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := notify.ConnectRedis(ctx)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	worker := notify.NewFanout(rdb, os.Getenv("LOBBYD_QUEUE_NAME"), cfg, logger)
	go worker.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cancel()
	logger.Info("notifier shutdown complete")
}
