package notify

import (
	"context"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
)

//go:generate mockgen -source=notify.go -destination=mocks/mock_dispatcher.go -package=mocks

// Dispatcher fans out transfer notifications. Dispatch is best-effort:
// errors are logged by callers, never propagated to the transfer itself.
type Dispatcher interface {
	NotifyTransfer(ctx context.Context, sender, recipient *entity.Account, amount int64, reference string) error
}
