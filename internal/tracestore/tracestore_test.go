package tracestore

import (
	"context"
	"testing"
	"time"

	"github.com/cschladetsch/asyncflow-go/internal/logging"
	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logging.NewLogger(logging.ParseLevel("error"), "text")
	store, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store
}

func TestStore_RecordsTicksForARun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.StartRun(ctx, "run-1", "heartbeat"); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	tf := timeframe.New()
	for i := int64(1); i <= 3; i++ {
		tf.UpdateWithDelta(time.Millisecond)
		if err := store.RecordTick(ctx, "run-1", i, tf); err != nil {
			t.Fatalf("RecordTick: %v", err)
		}
	}

	count, err := store.TickCount(ctx, "run-1")
	if err != nil {
		t.Fatalf("TickCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("TickCount = %d, want 3", count)
	}

	if err := store.EndRun(ctx, "run-1"); err != nil {
		t.Fatalf("EndRun: %v", err)
	}
}

func TestStore_RecordEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.StartRun(ctx, "run-2", "scenario"); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	err := store.RecordEvent(ctx, "run-2", 1, "generator-id", "timer", "elapsed", "fired once")
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
}

func TestRecorder_WritesTicksViaObserver(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.StartRun(ctx, "run-3", "recorder-test"); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	rec := NewRecorder(ctx, store, "run-3")
	tf := timeframe.New()
	rec.OnTick(1, tf)
	rec.OnTick(2, tf)

	count, err := store.TickCount(ctx, "run-3")
	if err != nil {
		t.Fatalf("TickCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("TickCount = %d, want 2", count)
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate call failed: %v", err)
	}
}
