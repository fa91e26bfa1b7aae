package ports

import "context"

// Mailer delivers plain-text notification e-mails. Implementations must be
// safe for concurrent use by the worker pool.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
