// Package saga runs ordered multi-step operations with manual compensation,
// substituting for a transaction across heterogeneous systems. Steps execute
// in order; on the first failure the compensations of the already-completed
// steps run in reverse. Best-effort steps never abort the sequence: their
// failures are reported but execution continues.
package saga

import (
	"context"
	"fmt"
)

// Step is one unit of a saga. Compensate undoes Run and may be nil for
// steps that need no rollback. BestEffort steps run after the critical
// steps in spirit: their failure is collected, not fatal.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	BestEffort bool
}

// Result reports what a saga execution did.
type Result struct {
	// Completed holds the names of steps whose Run succeeded.
	Completed []string
	// Warnings holds failures of best-effort steps and of compensations.
	Warnings []error
}

// Execute runs the steps in order. If a non-best-effort step fails, the
// compensations of all previously completed compensable steps run in
// reverse order and the step's error is returned alongside the partial
// result. Compensation failures are appended to Warnings; a partially
// compensated state is surfaced, never silently dropped.
func Execute(ctx context.Context, steps []Step) (Result, error) {
	var res Result
	var done []Step

	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			if step.BestEffort {
				res.Warnings = append(res.Warnings, fmt.Errorf("%s: %w", step.Name, err))
				continue
			}

			for i := len(done) - 1; i >= 0; i-- {
				if done[i].Compensate == nil {
					continue
				}
				if cerr := done[i].Compensate(ctx); cerr != nil {
					res.Warnings = append(res.Warnings, fmt.Errorf("compensating %s: %w", done[i].Name, cerr))
				}
			}

			return res, fmt.Errorf("%s: %w", step.Name, err)
		}

		res.Completed = append(res.Completed, step.Name)
		if !step.BestEffort {
			done = append(done, step)
		}
	}

	return res, nil
}
