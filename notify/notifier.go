package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Sender delivers a Message somewhere the owner will see it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Multi sends to every sender and joins their errors.
type Multi []Sender

func (m Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort logs failures of s instead of returning them.
func BestEffort(name string, s Sender) Sender {
	return SenderFunc(func(ctx context.Context, msg Message) error {
		if err := s.Send(ctx, msg); err != nil {
			slog.Warn("notification failed", "sender", name, "subject", msg.Subject, "err", err)
		}
		return nil
	})
}

// LogSender writes messages to the log. Used when no mail server is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("notification", "subject", msg.Subject, "reply_to", msg.ReplyTo, "text", msg.Text)
	return nil
}
