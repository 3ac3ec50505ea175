// internal/app/dispatcher.go
package app

import (
	"strconv"

	domainTelegram "poa_tracker/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier sends an expiry notice to a target chat. Implementations make at
// most one attempt per call and report the outcome as a boolean; retrying is
// the caller's decision.
type Notifier interface {
	Send(target, message string) bool
}

// MetricsRecorder is the subset of metric counters the application layer emits.
type MetricsRecorder interface {
	RecordScanTick()
	RecordNotificationSent()
	RecordNotificationFailed()
}

// Dispatcher delivers expiry notices via the Telegram client. Failures are
// logged and returned as false, never raised: no user is waiting on a
// notification, so the scan job decides what to do with a miss.
type Dispatcher struct {
	client        domainTelegram.Client
	defaultChatID int64
	logger        *logrus.Logger
	metrics       MetricsRecorder
}

func NewDispatcher(client domainTelegram.Client, defaultChatID int64, logger *logrus.Logger, metrics MetricsRecorder) *Dispatcher {
	return &Dispatcher{
		client:        client,
		defaultChatID: defaultChatID,
		logger:        logger,
		metrics:       metrics,
	}
}

// Send delivers message to the chat named by target. An empty or malformed
// target falls back to the configured default channel.
func (d *Dispatcher) Send(target, message string) bool {
	if d.client == nil {
		d.logger.Error("Telegram client is not configured. Dropping notification.")
		d.metrics.RecordNotificationFailed()
		return false
	}

	chatID := d.defaultChatID
	if target != "" {
		id, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			d.logger.Warnf("Malformed notify target %q, falling back to default chat %d", target, d.defaultChatID)
		} else {
			chatID = id
		}
	}

	if chatID == 0 {
		d.logger.Error("No notify target resolved and no default chat configured. Dropping notification.")
		d.metrics.RecordNotificationFailed()
		return false
	}

	if err := d.client.SendMessage(chatID, message, nil); err != nil {
		d.logger.Errorf("Failed to send notification to chat %d: %v", chatID, err)
		d.metrics.RecordNotificationFailed()
		return false
	}

	d.metrics.RecordNotificationSent()
	return true
}
