package ports

import "context"

// Notifier delivers a plain text report to operators.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
