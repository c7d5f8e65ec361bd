package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/artifact"
)

// DefaultMaxAge is how long a rendered receipt is kept before the sweep
// removes it. Receipts can always be regenerated from the ledger.
const DefaultMaxAge = 30 * 24 * time.Hour

// Janitor sweeps the artifact store and removes receipts older than the
// retention window. Deletions are independent of the ledger; a failed
// delete is logged and the sweep moves on.
type Janitor struct {
	store  artifact.Store
	maxAge time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewJanitor(store artifact.Store, maxAge time.Duration, logger *slog.Logger) *Janitor {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Janitor{store: store, maxAge: maxAge, logger: logger, now: time.Now}
}

// Purge deletes every artifact past the retention window and returns how
// many were removed. Per-file failures do not stop the sweep.
func (j *Janitor) Purge(ctx context.Context) (int, error) {
	infos, err := j.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list artifacts: %w", err)
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, info := range infos {
		if !info.ModTime.Before(cutoff) {
			continue
		}
		if err := j.store.Delete(ctx, info.Name); err != nil {
			j.logger.Warn("failed to delete expired artifact",
				"name", info.Name, "error", err)
			continue
		}
		j.logger.Info("deleted expired artifact",
			"name", info.Name, "age", j.now().Sub(info.ModTime).Round(time.Hour))
		removed++
	}
	return removed, nil
}

// Schedule registers the nightly sweep on the given scheduler.
func (j *Janitor) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		removed, err := j.Purge(context.Background())
		if err != nil {
			j.logger.Error("retention sweep failed", "error", err)
			return
		}
		j.logger.Info("retention sweep complete", "removed", removed)
	})
	if err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}
	return nil
}
