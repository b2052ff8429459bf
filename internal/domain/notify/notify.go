package notify

import "context"

// Message is a plain-text notification for the administrator.
type Message struct {
	Subject string
	Body    string
}

// Notifier delivers a Message to the administrator. A nil error means the
// message was handed off to the transport.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
