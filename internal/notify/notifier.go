package notify

import "context"

// Notifier publishes internal notifications about accepted content. Delivery
// is best-effort: callers fire it off the request path and only log failures.
type Notifier interface {
	Publish(ctx context.Context, subject, body string) error
}
