package adapters

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes reports to the application log. Used when no webhook is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements ports.Notifier.
func (n *LogNotifier) Notify(_ context.Context, text string) error {
	n.logger.Info("Unmapped status report", zap.String("report", text))
	return nil
}
