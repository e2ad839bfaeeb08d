package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/dispatch/internal/ports/primary"
)

// countingDispatchService records Tick calls; other methods are unused by the ticker.
type countingDispatchService struct {
	primary.DispatchService

	mu    sync.Mutex
	ticks int
	ids   [][]string
}

func (s *countingDispatchService) Tick(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	if len(s.ids) == 0 {
		return nil
	}
	next := s.ids[0]
	s.ids = s.ids[1:]
	return next
}

func (s *countingDispatchService) tickCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func TestTicker_TicksImmediatelyAndPeriodically(t *testing.T) {
	svc := &countingDispatchService{ids: [][]string{{"dispatch_1_a"}, nil, {"dispatch_2_b", "dispatch_3_c"}}}
	ticker := NewTicker(svc, 5*time.Millisecond, nil)

	var (
		mu        sync.Mutex
		completed []string
	)
	ticker.OnComplete(func(ids []string) {
		mu.Lock()
		completed = append(completed, ids...)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ticker.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for svc.tickCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("ticker made %d ticks, want at least 3", svc.tickCount())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run() error = %v, want nil on cancellation", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"dispatch_1_a", "dispatch_2_b", "dispatch_3_c"}
	if len(completed) != len(want) {
		t.Fatalf("completed = %v, want %v", completed, want)
	}
	for i := range want {
		if completed[i] != want[i] {
			t.Errorf("completed[%d] = %q, want %q", i, completed[i], want[i])
		}
	}
}

func TestTicker_StopsOnCancelledContext(t *testing.T) {
	svc := &countingDispatchService{}
	ticker := NewTicker(svc, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ticker.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if svc.tickCount() != 1 {
		t.Errorf("ticks = %d, want exactly the initial tick", svc.tickCount())
	}
}
