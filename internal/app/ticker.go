package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/dispatch/internal/ports/primary"
)

// Ticker is the periodic driver that advances mission status.
// Correctness never depends on its cadence; missions complete from absolute end times.
type Ticker struct {
	service    primary.DispatchService
	interval   time.Duration
	logger     *slog.Logger
	onComplete func(missionIDs []string)
}

// NewTicker creates a Ticker that calls service.Tick every interval.
func NewTicker(service primary.DispatchService, interval time.Duration, logger *slog.Logger) *Ticker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ticker{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// OnComplete registers a callback invoked with the IDs completed by each tick.
func (t *Ticker) OnComplete(fn func(missionIDs []string)) {
	t.onComplete = fn
}

// Run ticks once immediately, then every interval until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	t.logger.Info("dispatch ticker started", "interval", t.interval)
	t.step(ctx)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("dispatch ticker stopped")
			return nil
		case <-tk.C:
			t.step(ctx)
		}
	}
}

func (t *Ticker) step(ctx context.Context) {
	completed := t.service.Tick(ctx)
	if len(completed) == 0 {
		return
	}
	t.logger.Debug("tick completed missions", "missions", completed)
	if t.onComplete != nil {
		t.onComplete(completed)
	}
}
