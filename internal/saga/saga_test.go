package saga

import (
	"context"
	"errors"
	"testing"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("all steps succeed", func(t *testing.T) {
		var order []string
		steps := []Step{
			{Name: "one", Run: func(ctx context.Context) error { order = append(order, "one"); return nil }},
			{Name: "two", Run: func(ctx context.Context) error { order = append(order, "two"); return nil }},
		}

		res, err := Execute(ctx, steps)
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if len(res.Completed) != 2 || res.Completed[0] != "one" || res.Completed[1] != "two" {
			t.Fatalf("unexpected completed steps: %v", res.Completed)
		}
		if len(order) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(order))
		}
	})

	t.Run("failure compensates in reverse order", func(t *testing.T) {
		var compensated []string
		boom := errors.New("boom")

		steps := []Step{
			{
				Name: "account",
				Run:  func(ctx context.Context) error { return nil },
				Compensate: func(ctx context.Context) error {
					compensated = append(compensated, "account")
					return nil
				},
			},
			{
				Name: "profile",
				Run:  func(ctx context.Context) error { return nil },
				Compensate: func(ctx context.Context) error {
					compensated = append(compensated, "profile")
					return nil
				},
			},
			{
				Name: "client",
				Run:  func(ctx context.Context) error { return boom },
			},
		}

		_, err := Execute(ctx, steps)
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped boom error, got %v", err)
		}
		if len(compensated) != 2 || compensated[0] != "profile" || compensated[1] != "account" {
			t.Fatalf("expected reverse compensation [profile account], got %v", compensated)
		}
	})

	t.Run("steps after failure never run", func(t *testing.T) {
		ran := false
		steps := []Step{
			{Name: "fails", Run: func(ctx context.Context) error { return errors.New("no") }},
			{Name: "after", Run: func(ctx context.Context) error { ran = true; return nil }},
		}

		if _, err := Execute(ctx, steps); err == nil {
			t.Fatal("expected error, got nil")
		}
		if ran {
			t.Fatal("step after failure should not run")
		}
	})

	t.Run("best-effort failure is a warning, not an abort", func(t *testing.T) {
		var order []string
		steps := []Step{
			{Name: "records", Run: func(ctx context.Context) error { order = append(order, "records"); return nil }},
			{Name: "auth cleanup", Run: func(ctx context.Context) error { return errors.New("auth down") }, BestEffort: true},
			{Name: "files", Run: func(ctx context.Context) error { order = append(order, "files"); return nil }, BestEffort: true},
		}

		res, err := Execute(ctx, steps)
		if err != nil {
			t.Fatalf("best-effort failure must not abort: %v", err)
		}
		if len(res.Warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
		}
		if len(order) != 2 {
			t.Fatalf("expected remaining steps to run, got %v", order)
		}
	})

	t.Run("compensation failure is reported", func(t *testing.T) {
		steps := []Step{
			{
				Name:       "a",
				Run:        func(ctx context.Context) error { return nil },
				Compensate: func(ctx context.Context) error { return errors.New("undo failed") },
			},
			{Name: "b", Run: func(ctx context.Context) error { return errors.New("stop") }},
		}

		res, err := Execute(ctx, steps)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(res.Warnings) != 1 {
			t.Fatalf("expected compensation warning, got %v", res.Warnings)
		}
	})
}
