package services

import (
	"context"
	"testing"
)

func TestContextRoundTrips(t *testing.T) {
	ctx := context.Background()
	ctx = WithJobID(ctx, "j1")
	ctx = WithTaskID(ctx, "t1")
	ctx = WithRequestID(ctx, "r1")

	if id, ok := JobIDFromContext(ctx); !ok || id != "j1" {
		t.Fatalf("job id = %q, %v", id, ok)
	}
	if id, ok := TaskIDFromContext(ctx); !ok || id != "t1" {
		t.Fatalf("task id = %q, %v", id, ok)
	}
	if id, ok := RequestIDFromContext(ctx); !ok || id != "r1" {
		t.Fatalf("request id = %q, %v", id, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := WithJobID(context.Background(), "")
	if _, ok := JobIDFromContext(ctx); ok {
		t.Fatal("expected empty job id to be ignored")
	}
	if _, ok := TaskIDFromContext(context.Background()); ok {
		t.Fatal("expected missing task id")
	}
}
