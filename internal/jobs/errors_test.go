package jobs_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"corpusprep/internal/jobs"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := jobs.Wrap(jobs.ErrIO, "shard", "write", "shard 3", base)
	if !errors.Is(err, jobs.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"shard", "write", "shard 3", "disk full"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := jobs.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, jobs.ErrIO) {
		t.Fatalf("expected io marker by default, got %v", err)
	}
	if !strings.Contains(err.Error(), "job failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, jobs.ExitOK},
		{"invalid", jobs.Invalid("vocab", "max size must be positive"), jobs.ExitUsage},
		{"not found", jobs.Wrap(jobs.ErrNotFound, "shard", "open", "input", nil), jobs.ExitFailure},
		{"plain", errors.New("boom"), jobs.ExitFailure},
		{"rewrapped invalid", fmt.Errorf("outer: %w", jobs.Invalid("shard", "count")), jobs.ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobs.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	cases := map[error]string{
		jobs.Wrap(jobs.ErrInvariant, "shard", "assign", "index", nil): "invariant",
		jobs.Wrap(jobs.ErrLocked, "vocab", "lock", "", nil):           "locked",
		jobs.Wrap(jobs.ErrNotFound, "vocab", "open", "", nil):         "not_found",
		errors.New("other"): "unknown",
	}
	for err, want := range cases {
		if got := jobs.Classify(err); got != want {
			t.Errorf("Classify(%v) = %q, want %q", err, got, want)
		}
	}
	if got := jobs.Classify(nil); got != "" {
		t.Errorf("Classify(nil) = %q, want empty", got)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := jobs.WithRunID(jobs.WithJob(context.Background(), "shard"), "run-1")
	if job, ok := jobs.JobFromContext(ctx); !ok || job != "shard" {
		t.Fatalf("JobFromContext = %q, %v", job, ok)
	}
	if id, ok := jobs.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
	if _, ok := jobs.JobFromContext(jobs.WithJob(context.Background(), "")); ok {
		t.Fatal("expected empty job to be ignored")
	}
}
