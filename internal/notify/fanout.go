// internal/notify/fanout.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/models"
)

// Fanout consumes lobby events from the Redis queue and delivers them to the
// configured Telegram channels, Discord webhooks, and per-candidate invite
// DMs. It runs as its own process (cmd/notifier) so slow chat APIs never sit
// on the join path.
type Fanout struct {
	rdb      *redis.Client
	queue    string
	cfg      *config.Config
	telegram *TelegramClient
	webhooks *WebhookPoster
	log      *logrus.Logger
}

// NewFanout assembles a worker. queue defaults to DefaultQueueName when empty.
func NewFanout(rdb *redis.Client, queue string, cfg *config.Config, logger *logrus.Logger) *Fanout {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Fanout{
		rdb:      rdb,
		queue:    queue,
		cfg:      cfg,
		telegram: NewTelegramClient(cfg.Telegram.Token),
		webhooks: NewWebhookPoster(),
		log:      logger,
	}
}

// Run blocks, popping events until ctx is cancelled.
func (f *Fanout) Run(ctx context.Context) {
	f.log.Infof("notifier consuming queue %q", f.queue)
	for {
		if ctx.Err() != nil {
			return
		}
		// BLPop with a short timeout so cancellation is noticed promptly.
		res, err := f.rdb.BLPop(ctx, 3*time.Second, f.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			f.log.WithError(err).Warn("blpop failed")
			continue
		}
		if len(res) < 2 {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
			f.log.WithError(err).Warn("dropping malformed event")
			continue
		}
		f.Deliver(ctx, ev)
	}
}

// Deliver fans one event out to every configured destination. Each delivery
// failure is logged and the rest proceed; events are at-most-once.
func (f *Fanout) Deliver(ctx context.Context, ev Event) {
	switch ev.Kind {
	case KindCreated:
		f.deliverCreated(ctx, ev)
	case KindJoined:
		f.deliverJoined(ctx, ev)
	default:
		f.log.Warnf("unknown event kind %q for lobby %s", ev.Kind, ev.LobbyID)
	}
}

func (f *Fanout) deliverCreated(ctx context.Context, ev Event) {
	names := make([]string, 0, len(ev.Members))
	for _, m := range ev.Members {
		names = append(names, models.DisplayName(m))
	}
	announcement := fmt.Sprintf("%s created %s", strings.Join(names, ", "), ev.LobbyName)
	f.announce(ctx, announcement)

	// DM each remaining candidate their personal join link.
	for slot, identity := range ev.Slots {
		contact, ok := f.cfg.Users[identity]
		if !ok || contact.Telegram == 0 {
			f.log.Warnf("no telegram contact for %s, skipping invite", models.DisplayName(identity))
			continue
		}
		msg := fmt.Sprintf("[Join %s!](%s)", ev.LobbyName, f.cfg.InviteURL(ev.LobbyID, slot))
		if err := f.telegram.SendMessage(ctx, contact.Telegram, msg); err != nil {
			f.log.WithError(err).Warnf("invite delivery to %s failed", models.DisplayName(identity))
		}
	}
}

func (f *Fanout) deliverJoined(ctx context.Context, ev Event) {
	who := models.DisplayName(ev.Identity)
	for _, hook := range f.cfg.Discord.Webhooks {
		if err := f.webhooks.Post(ctx, hook, ev.LobbyName, who+" joined"); err != nil {
			f.log.WithError(err).Warn("webhook delivery failed")
		}
	}
	f.announce(ctx, fmt.Sprintf("%s joined `%s`", who, ev.LobbyName))
}

func (f *Fanout) announce(ctx context.Context, text string) {
	for _, chanID := range f.cfg.Telegram.Channels {
		if err := f.telegram.SendMessage(ctx, chanID, text); err != nil {
			f.log.WithError(err).Warnf("channel announcement to %d failed", chanID)
		}
	}
}
