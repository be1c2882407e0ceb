// internal/notify/webhook.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebhookPoster delivers join announcements to Discord-compatible webhooks.
type WebhookPoster struct {
	client *http.Client
}

// NewWebhookPoster returns a poster with a bounded request timeout.
func NewWebhookPoster() *WebhookPoster {
	return &WebhookPoster{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Post sends `{"username": ..., "content": ...}` to the webhook URL. The
// username field sets the displayed author, which the original announcements
// use to show the lobby name.
func (p *WebhookPoster) Post(ctx context.Context, url, username, content string) error {
	payload := map[string]string{
		"username": username,
		"content":  content,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook post: status %d", resp.StatusCode)
	}
	return nil
}
