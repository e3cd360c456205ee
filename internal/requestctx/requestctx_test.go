package requestctx

import (
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestNewOperation(t *testing.T) {
	ctx := NewOperation(context.Background(), "cli")
	id := GetRequestID(ctx)
	if !strings.HasPrefix(id, "cli-") || len(id) <= len("cli-") {
		t.Fatalf("unexpected operation id %q", id)
	}
	if again := GetRequestID(NewOperation(ctx, "job")); again != id {
		t.Fatalf("existing id replaced: %q -> %q", id, again)
	}
}
