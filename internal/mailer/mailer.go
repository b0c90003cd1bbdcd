// Package mailer dispatches transactional emails.
package mailer

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Templates known to the dispatcher.
const (
	TemplateContactConfirmation      = "contact_confirmation"
	TemplateContactAdminNotification = "contact_admin_notification"
)

// ErrNoRecipient is returned when a message has no recipient.
var ErrNoRecipient = errors.New("mailer: message has no recipient")

// Message is one email to render and deliver.
type Message struct {
	Template string
	To       string
	Data     map[string]interface{}
}

// Dispatcher sends messages. Implementations must be safe for concurrent use.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// LogDispatcher records every message to the log instead of delivering it.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher returns a dispatcher writing to logger.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Data holds user-submitted content, so only its keys are logged.
	keys := make([]string, 0, len(msg.Data))
	for k := range msg.Data {
		keys = append(keys, k)
	}
	d.logger.Info("email dispatched",
		zap.String("template", msg.Template),
		zap.String("to", msg.To),
		zap.Strings("fields", keys),
	)
	return nil
}
