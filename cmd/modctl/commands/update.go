// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/deploy"
)

func newUpdateCmd() *cobra.Command {
	var (
		skipBuild bool
		noWait    bool
		parallel  bool
	)

	cmd := &cobra.Command{
		Use:   "update [frontend|backend|all]",
		Short: "Build, push and redeploy services on ECS",
		Long: `Update runs the full release cycle for the named services: build the
image, push it to ECR, force a new ECS deployment and wait for the
service to stabilize. With no argument both services are updated, in
frontend, backend order. The first failing step aborts the run and the
remaining steps are recorded as skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := serviceArgs(cmd, args)
			if err != nil {
				return err
			}
			ops, err := newOps(cmd)
			if err != nil {
				return err
			}

			rec, runErr := ops.updater(cmd).Run(cmd.Context(), services, deploy.Options{
				SkipBuild: skipBuild,
				NoWait:    noWait,
				Parallel:  parallel,
			})

			// The record is written on failure too; status reads it back.
			if werr := ops.recordStore().Write(rec); werr != nil {
				ops.Log.Warn("could not persist update record", zap.Error(werr))
			}

			printRunSummary(cmd.OutOrStdout(), rec)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "redeploy the current :latest images without building or pushing")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "return once redeploys are accepted instead of waiting for stability")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "build and push all services concurrently, then roll them in order")
	return cmd
}

func printRunSummary(w io.Writer, rec deploy.Record) {
	for _, st := range rec.Steps {
		line := fmt.Sprintf("%s %s", statusCell(st.Status), st.Name)
		if st.Duration != "" {
			line += " (" + st.Duration + ")"
		}
		if st.Error != "" {
			line += ": " + st.Error
		}
		fmt.Fprintln(w, line)
	}

	if rec.Status != deploy.StatusOK {
		return
	}
	elapsed := rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond)
	if rec.Tag != "" {
		fmt.Fprintf(w, "\nupdated %s with tag %s in %s\n", strings.Join(rec.Services, ", "), rec.Tag, elapsed)
	} else {
		fmt.Fprintf(w, "\nredeployed %s in %s\n", strings.Join(rec.Services, ", "), elapsed)
	}
}

// statusCell pads before coloring so columns line up with or without
// ANSI codes.
func statusCell(s deploy.Status) string {
	padded := fmt.Sprintf("%-7s", string(s))
	switch s {
	case deploy.StatusOK:
		return color.GreenString(padded)
	case deploy.StatusFailed:
		return color.RedString(padded)
	default:
		return color.New(color.Faint).Sprint(padded)
	}
}
