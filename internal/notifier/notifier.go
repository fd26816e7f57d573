// Package notifier
package notifier

import (
	"time"

	"github.com/lumenmm/offerbot/internal/utils"
)

// Notifier interface for sending notifications (e.g., Telegram).
type Notifier interface {
	Send(msg string) error
	SendWithRetry(msg string) error
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Send(string) error          { return nil }
func (Noop) SendWithRetry(string) error { return nil }

// withRetry reattempts a send a few times with a fixed delay before giving
// up. Notification loss is never fatal to a pass.
func withRetry(send func(string) error, msg string, attempts int, delay time.Duration) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = send(msg); err == nil {
			return nil
		}
		utils.GetLogger().Printf("Notifier | send attempt %d/%d failed: %v", i, attempts, err)
		time.Sleep(delay)
	}
	return err
}
