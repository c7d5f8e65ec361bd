// Package notify carries the transfer notification contract's default
// implementation. Mail/SMS transports live outside this service; this
// dispatcher records the completed fan-out so downstream delivery can
// tail the log stream.
package notify

import (
	"context"
	"log/slog"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
)

type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) NotifyTransfer(ctx context.Context, sender, recipient *entity.Account, amount int64, reference string) error {
	d.logger.InfoContext(ctx, "transfer notification",
		"sender_account", sender.AccountNumber(),
		"recipient_account", recipient.AccountNumber(),
		"amount", amount,
		"reference", reference,
	)
	return nil
}
