package cli

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cschladetsch/asyncflow-go/internal/inspect"
	"github.com/cschladetsch/asyncflow-go/internal/tracestore"
	"github.com/cschladetsch/asyncflow-go/kernel"
)

// buildKernel constructs a Kernel wired up per the root command's
// persistent flags (tracing, introspection, speed), returning it alongside
// a cleanup func the caller must run after the Kernel has finished driving.
func buildKernel(ctx context.Context, name string) (*kernel.Kernel, func(), error) {
	quantum := time.Duration(float64(cfg.TickQuantum) * flagSpeed)
	opts := []kernel.Option{kernel.WithLogger(logger), kernel.WithTickQuantum(quantum)}
	cleanup := func() {}

	if cfg.Trace {
		store, err := tracestore.NewSQLiteStore(cfg.TracePath, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}

		runID := uuid.New().String()
		if err := store.StartRun(ctx, runID, name); err != nil {
			store.Close()
			return nil, nil, err
		}

		rec := tracestore.NewRecorder(ctx, store, runID)
		opts = append(opts, kernel.WithObserver(rec))
		cleanup = func() {
			store.EndRun(ctx, runID)
			store.Close()
		}
	}

	k := kernel.New(opts...)

	if cfg.InspectAddr != "" {
		srv := inspect.New(k, logger)
		go func() {
			if err := srv.ListenAndServe(cfg.InspectAddr); err != nil {
				logger.Error("inspection server stopped", "error", err)
			}
		}()
		logger.Info("inspection server listening", "addr", cfg.InspectAddr)
	}

	return k, cleanup, nil
}
