package notify

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"trollfaceiv/mebot/internal/config"
)

// Pusher is a best-effort side channel for short text notifications.
// Delivery failures are never surfaced to callers.
type Pusher interface {
	Push(message string)
}

// Pushover delivers messages to the Pushover API with a single form POST.
type Pushover struct {
	user   string
	token  string
	url    string
	client *http.Client
}

func NewPushover(cfg *config.PushConfig) *Pushover {
	return &Pushover{
		user:  cfg.User,
		token: cfg.Token,
		url:   cfg.URL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Push makes one delivery attempt. No retries, the response body is
// discarded and errors are only logged.
func (p *Pushover) Push(message string) {
	zap.S().Infof("Push: %s", message)

	resp, err := p.client.PostForm(p.url, url.Values{
		"user":    {p.user},
		"token":   {p.token},
		"message": {message},
	})
	if err != nil {
		zap.S().Warnw("Push delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		zap.S().Warnw("Push delivery rejected", "status", resp.StatusCode)
	}
}

// Discard logs messages without delivering them anywhere. Used when no
// Pushover credentials are configured.
type Discard struct{}

func (Discard) Push(message string) {
	zap.S().Infof("Push (no-op): %s", message)
}

// FromConfig returns a Pushover sink when credentials are present and
// the no-op sink otherwise.
func FromConfig(cfg *config.PushConfig) Pusher {
	if cfg.User == "" || cfg.Token == "" {
		return Discard{}
	}
	return NewPushover(cfg)
}
