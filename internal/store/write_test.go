package store

import (
	"context"
	"testing"
)

func TestWriteRun_AssignsIncreasingSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"b", "a", "c"} {
		seq, err := s.WriteRun(ctx, createTestRun(id, "kitchen.yaml", "copy"))
		if err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", id, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("WriteRun(%s) seq = %d, want %d", id, seq, want)
		}
	}
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteRun(ctx, createTestRun("r1", "kitchen.yaml", "copy"))
	if err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}
	second, err := s.WriteRun(ctx, createTestRun("r1", "other.yaml", "alias"))
	if err != nil {
		t.Fatalf("second WriteRun() failed: %v", err)
	}
	if first != second {
		t.Errorf("duplicate write seq = %d, want %d", second, first)
	}

	runs, err := s.ReadRuns(ctx, Filter{})
	if err != nil {
		t.Fatalf("ReadRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Fixture != "kitchen.yaml" {
		t.Errorf("runs = %+v, want the first write only", runs)
	}
}

func TestWriteRun_RequiresID(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteRun(context.Background(), Run{Command: "clone"}); err == nil {
		t.Error("expected error for empty id, got nil")
	}
}

func TestWriteRun_RoundTripsErrors(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("r1", "kitchen.yaml", "copy")
	run.Pass = false
	run.Errors = []string{`shared assertion failed at "map": expected <a&b>`}
	if _, err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, ok, err := s.Latest(ctx, "kitchen.yaml", "copy", "verify")
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if got.Pass {
		t.Error("Pass = true, want false")
	}
	if len(got.Errors) != 1 || got.Errors[0] != run.Errors[0] {
		t.Errorf("Errors = %q, want %q", got.Errors, run.Errors)
	}
	if got.Stats != run.Stats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, run.Stats)
	}
	if got.CallID != "call-r1" {
		t.Errorf("CallID = %q, want call-r1", got.CallID)
	}
}
