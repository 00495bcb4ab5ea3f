// Package notify forwards guest messages to the host outside the web app.
package notify

import (
	"context"
	"errors"

	"guest_manual/internal/domain"
)

// Multi fans an event out to every notifier and joins their errors.
type Multi []domain.MessageNotifier

func (m Multi) NotifyMessage(ctx context.Context, ev domain.MessageEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyMessage(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
