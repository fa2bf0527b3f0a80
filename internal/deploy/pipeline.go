// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package deploy rebuilds images and rolls the ECS services that run
// them. A run is a flat sequence of named steps executed fail-fast:
// the first error aborts the run, and whatever did not run is recorded
// as skipped. There are no retries here; the only waiting is the ECS
// stability waiter.
package deploy

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one named unit of an update run.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunSteps executes steps in order, stopping at the first failure.
// The returned record always covers every step. The error, when set,
// is the failing step's error wrapped with its name.
func RunSteps(ctx context.Context, log *zap.Logger, steps []Step) (Record, error) {
	rec := Record{StartedAt: time.Now().UTC()}

	var failed error
	for _, st := range steps {
		if failed != nil {
			rec.Steps = append(rec.Steps, StepResult{Name: st.Name, Status: StatusSkipped})
			continue
		}

		log.Info("step", zap.String("name", st.Name))
		start := time.Now()
		err := st.Run(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)

		if err != nil {
			failed = fmt.Errorf("%s: %w", st.Name, err)
			rec.Steps = append(rec.Steps, StepResult{
				Name:     st.Name,
				Status:   StatusFailed,
				Duration: elapsed.String(),
				Error:    err.Error(),
			})
			log.Error("step failed",
				zap.String("name", st.Name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			continue
		}

		rec.Steps = append(rec.Steps, StepResult{
			Name:     st.Name,
			Status:   StatusOK,
			Duration: elapsed.String(),
		})
		log.Info("step done",
			zap.String("name", st.Name),
			zap.Duration("elapsed", elapsed))
	}

	rec.FinishedAt = time.Now().UTC()
	rec.Status = StatusOK
	if failed != nil {
		rec.Status = StatusFailed
	}
	return rec, failed
}
