package ctxutil

import (
	"context"
	"testing"
)

func TestPlayerFromContext(t *testing.T) {
	if got := PlayerFromContext(context.Background()); got != "" {
		t.Errorf("PlayerFromContext(empty) = %q, want empty", got)
	}

	ctx := WithPlayerID(context.Background(), "player-7")
	if got := PlayerFromContext(ctx); got != "player-7" {
		t.Errorf("PlayerFromContext() = %q, want player-7", got)
	}
}
