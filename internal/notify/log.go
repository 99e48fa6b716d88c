package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the application log. Used whenever no
// email credentials are configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(ctx context.Context, subject, body string) error {
	n.log.Info("📨 notification", "subject", subject, "body", body)
	return nil
}
