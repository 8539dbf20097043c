package notify

import (
	"context"
	"log"
)

// Notifier delivers a password-reset link out-of-band. Delivery itself is an
// external concern; the auth flow only hands over the link.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogNotifier writes the reset link to the process log. Good enough for
// development; production deployments plug in a real mail sender.
type LogNotifier struct{}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendPasswordReset logs the reset link for the given email.
func (n *LogNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	log.Println("------------------------------------------------")
	log.Printf("PASSWORD RESET LINK FOR %s:", email)
	log.Println(link)
	log.Println("------------------------------------------------")
	return nil
}
