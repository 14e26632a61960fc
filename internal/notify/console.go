package notify

import (
	"context"

	"go.uber.org/zap"

	"xconsultation/internal/config"
)

// ConsoleGateway logs messages instead of sending them. Used in development.
type ConsoleGateway struct {
	cfg config.EmailConfig
	log *zap.Logger
}

// NewConsoleGateway creates a new console gateway
func NewConsoleGateway(cfg config.EmailConfig, log *zap.Logger) *ConsoleGateway {
	return &ConsoleGateway{cfg: cfg, log: log}
}

// Send logs msg. Missing recipients are logged, not rejected.
func (g *ConsoleGateway) Send(_ context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = g.cfg.From()
	}
	g.log.Info("email would be sent",
		zap.String("from", from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	)
	return nil
}
