// Package sweep removes accounts that have stayed deactivated past the
// retention window.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/studyhard/account-service/internal/auth"
)

// RetentionPeriod is how long a deactivated account survives before the
// sweep deletes it.
const RetentionPeriod = 30 * 24 * time.Hour

// Run purges long-deactivated accounts once per interval until the
// context is cancelled.  The store evaluates the is_active predicate
// inside the delete itself, so an account reactivated between ticks is
// never destroyed from a stale read.
func Run(ctx context.Context, store auth.UserStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, store)
		}
	}
}

func sweepOnce(ctx context.Context, store auth.UserStore) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-RetentionPeriod)
	n, err := store.PurgeInactiveBefore(opCtx, cutoff)
	if err != nil {
		log.Printf("sweep: purge inactive users failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("sweep: deleted %d inactive users", n)
	}
}
