package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/studyhard/account-service/internal/auth"
)

// purgeStore records purge calls; every other store method is unused by
// the sweep and left to the embedded nil interface.
type purgeStore struct {
	auth.UserStore
	calls chan time.Time
}

func (s *purgeStore) PurgeInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	select {
	case s.calls <- cutoff:
	default:
	}
	return 1, nil
}

func TestRunPurgesOnEachTick(t *testing.T) {
	store := &purgeStore{calls: make(chan time.Time, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, store, 5*time.Millisecond)
		close(done)
	}()

	var cutoff time.Time
	select {
	case cutoff = <-store.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}

	// The cutoff trails now by the retention window.
	want := time.Now().UTC().Add(-RetentionPeriod)
	if diff := want.Sub(cutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff %v is not ~%v before now", cutoff, RetentionPeriod)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
