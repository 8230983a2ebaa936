package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/soclink/authcore/internal/logger"
)

// GatewayConfig configures the HTTP notification gateway client.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// gatewayNotifier delivers reset tokens through the platform's mail gateway.
type gatewayNotifier struct {
	client *resty.Client
	from   string
	logger *logger.Logger
}

// NewGatewayNotifier builds a Notifier over the HTTP mail gateway.
func NewGatewayNotifier(cfg GatewayConfig, logger *logger.Logger) Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.APIKey)

	return &gatewayNotifier{client: cli, from: cfg.From, logger: logger}
}

type resetMessage struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Template string `json:"template"`
	Token    string `json:"token"`
}

func (g *gatewayNotifier) SendResetToken(ctx context.Context, email, token string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(resetMessage{
			From:     g.from,
			To:       email,
			Template: "password-reset",
			Token:    token,
		}).
		Post("/v1/messages")
	if err != nil {
		return fmt.Errorf("reset notification request: %w", err)
	}
	if resp.IsError() {
		// The body may echo the recipient or the token; log the status only.
		return fmt.Errorf("reset notification rejected: status %d", resp.StatusCode())
	}

	g.logger.Debug().
		Str("func", "*gatewayNotifier.SendResetToken").
		Msg("reset notification dispatched")

	return nil
}

// nopNotifier is used when no gateway is configured; tokens issued in local
// runs are retrievable only through the server log at debug level.
type nopNotifier struct {
	logger *logger.Logger
}

// NewNopNotifier builds a Notifier that drops messages.
func NewNopNotifier(logger *logger.Logger) Notifier {
	return &nopNotifier{logger: logger}
}

func (n *nopNotifier) SendResetToken(_ context.Context, email, _ string) error {
	n.logger.Debug().
		Str("func", "*nopNotifier.SendResetToken").
		Str("email", email).
		Msg("no notification gateway configured, reset token dropped")
	return nil
}
