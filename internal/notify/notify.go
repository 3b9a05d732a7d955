// Package notify defines the delivery side of the bot: anything that can push
// a text message to the student.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Notifier delivers a single text message.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// NotificationError is returned by every transport when a message could not
// be delivered.
type NotificationError struct {
	Transport string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s: send message: %v", e.Transport, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Multi sends every message to all of its notifiers.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type loggingNotifier struct {
	next   Notifier
	logger *slog.Logger
}

// WithLogging wraps a notifier so every delivery attempt is logged.
func WithLogging(next Notifier, logger *slog.Logger) Notifier {
	return &loggingNotifier{next: next, logger: logger}
}

func (n *loggingNotifier) Send(ctx context.Context, message string) error {
	n.logger.InfoContext(ctx, "Sending message", "message", message)
	if err := n.next.Send(ctx, message); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send message", "error", err)
		return err
	}
	n.logger.InfoContext(ctx, "Message sent")
	return nil
}

type bestEffortNotifier struct {
	next   Notifier
	logger *slog.Logger
}

// BestEffort logs delivery failures of next instead of returning them. Used for
// mirrors whose outage must not hold back the cursor.
func BestEffort(next Notifier, logger *slog.Logger) Notifier {
	return &bestEffortNotifier{next: next, logger: logger}
}

func (n *bestEffortNotifier) Send(ctx context.Context, message string) error {
	if err := n.next.Send(ctx, message); err != nil {
		n.logger.WarnContext(ctx, "Mirror delivery failed", "error", err)
	}
	return nil
}
