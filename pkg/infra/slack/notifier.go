package slack

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

type webhookNotifier struct {
	url        string
	channel    string
	httpClient *http.Client
}

// Option configures the notifier
type Option func(*webhookNotifier)

// WithChannel overrides the webhook default channel
func WithChannel(channel string) Option {
	return func(n *webhookNotifier) {
		n.channel = channel
	}
}

// WithHTTPClient replaces the HTTP client used to post messages
func WithHTTPClient(client *http.Client) Option {
	return func(n *webhookNotifier) {
		n.httpClient = client
	}
}

// NewWebhookNotifier posts messages to a Slack incoming webhook
func NewWebhookNotifier(url string, opts ...Option) interfaces.Notifier {
	n := &webhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts message as plain text
func (n *webhookNotifier) Notify(ctx context.Context, message string) error {
	msg := &slack.WebhookMessage{
		Channel: n.channel,
		Text:    message,
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.url, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook", goerr.V("channel", n.channel))
	}
	return nil
}

type nopNotifier struct{}

// NewNop returns a Notifier that does nothing
func NewNop() interfaces.Notifier {
	return nopNotifier{}
}

func (nopNotifier) Notify(context.Context, string) error { return nil }
