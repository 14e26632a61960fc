// Package notify delivers rendered email messages through the configured transport.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"xconsultation/internal/config"
)

// Message is a rendered notification ready for delivery
type Message struct {
	From     string // defaults to the configured sender
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Gateway sends a message and reports whether delivery was accepted
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the gateway selected by cfg.Provider
func New(cfg config.EmailConfig, log *zap.Logger) (Gateway, error) {
	log = log.Named("notify")
	switch cfg.Provider {
	case config.ProviderSMTP:
		return NewSMTPGateway(cfg), nil
	case config.ProviderHTTP:
		return NewHTTPGateway(cfg), nil
	case config.ProviderConsole:
		return NewConsoleGateway(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

func validate(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("message has no recipient")
	}
	if msg.Subject == "" {
		return fmt.Errorf("message has no subject")
	}
	return nil
}
