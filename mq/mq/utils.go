package mq

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Subscriber is anything that hands out a message stream per subscription.
type Subscriber[M any] interface {
	Subscribe() (uuid.UUID, <-chan M, error)
	DeSubscribe(id uuid.UUID) error
}

// SubscribeProcessor subscribes to service and then forwards transformed
// messages to outputStream until ctx is done or the input closes. The
// subscription exists once it returns. outputStream is closed on exit, so the
// caller must own it exclusively.
func SubscribeProcessor[S Subscriber[M], M any, O any](
	ctx context.Context,
	service S,
	transformFunc func(msg M) (O, bool, error),
	outputStream chan<- O,
) error {
	uid, inputCh, err := service.Subscribe()
	if err != nil {
		close(outputStream)
		return err
	}

	go func() {
		defer func() {
			if err := service.DeSubscribe(uid); err != nil {
				slog.Debug("de-subscribe", "id", uid, "err", err)
			}
			close(outputStream)
		}()

		for {
			select {
			case msg, ok := <-inputCh:
				if !ok {
					return
				}

				output, skip, err := transformFunc(msg)
				if err != nil {
					slog.Warn("dropping message", "id", uid, "err", err)
					continue
				}
				if skip {
					continue
				}

				select {
				case outputStream <- output:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
