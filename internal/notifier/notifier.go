package notifier

import "context"

// Notifier is the external delivery channel. A Send call makes exactly
// one attempt and reports the outcome; retry is the scanner's concern,
// driven by the item staying pending across ticks.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
	// Configured reports whether delivery can be expected to work at
	// all (endpoint and credentials present). Surfaced on /status.
	Configured() bool
}
