package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes broadcasts to the structured log. Used when no broker is
// configured (local development, tests).
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyValidationRequested(ctx context.Context, req ValidationRequested) error {
	n.logger.InfoContext(ctx, "validation requested",
		"record_id", req.RecordID,
		"role", req.Role,
		"sensitivity", req.Sensitivity,
	)
	return nil
}
