package sms

import (
	"context"
	"log/slog"
)

// LogProvider writes codes to the log instead of sending them. It stands
// in for a real provider in development and local runs.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Send(_ context.Context, code, recipient string) error {
	p.logger.Info("otp code issued",
		slog.String("recipient", recipient),
		slog.String("code", code),
	)
	return nil
}
