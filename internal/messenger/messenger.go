// Package messenger dispatches SMS/MMS through a Twilio-style REST API.
package messenger

import "context"

// Message is one outbound SMS/MMS.
type Message struct {
	// To is the destination number in +1XXXXXXXXXX form.
	To string

	// Body is the message text. May be empty when MediaURL is set.
	Body string

	// MediaURL optionally attaches media, upgrading the message to MMS.
	MediaURL string
}

// Messenger sends a single message and reports whether the provider
// accepted it. Failures are per-message; callers decide whether to keep
// going.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
}
