// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/deploy"
	"github.com/marshalonis/modernizer/internal/params"
	"github.com/marshalonis/modernizer/internal/probe"
)

// statusReport is the --json shape of the status command.
type statusReport struct {
	Cluster    string                `json:"cluster"`
	Services   []deploy.ServiceState `json:"services"`
	LastUpdate *deploy.Record        `json:"last_update,omitempty"`
	Probe      *probeResult          `json:"probe,omitempty"`
}

type probeResult struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var (
		asJSON   bool
		showLast bool
		doProbe  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ECS service status",
		Long: `Status reports the running state of both ECS services. --last adds the
outcome of the last update run on this machine, --probe hits the
backend health endpoint, and --json emits everything machine-readable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			ops, err := env.connect(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dep, err := ops.Params.Deployment(ctx)
			if err != nil {
				return err
			}
			states, err := deploy.Describe(ctx, ops.AWS.ECS, dep.ClusterName,
				[]string{dep.FrontendService, dep.BackendService})
			if err != nil {
				return err
			}

			var last *deploy.Record
			if showLast {
				rec, rerr := env.recordStore().Read()
				if rerr != nil {
					env.Log.Warn("could not read last update record", zap.Error(rerr))
				}
				last = rec
			}

			var pr *probeResult
			var probeErr error
			if doProbe {
				url, uerr := backendHealthURL(ctx, env, ops)
				if uerr != nil {
					return uerr
				}
				env.Log.Info("probing backend", zap.String("url", url))
				probeErr = probe.Health(ctx, nil, url, 0)
				pr = &probeResult{URL: url, Healthy: probeErr == nil}
				if probeErr != nil {
					pr.Error = probeErr.Error()
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(statusReport{
					Cluster:    dep.ClusterName,
					Services:   states,
					LastUpdate: last,
					Probe:      pr,
				}); err != nil {
					return err
				}
				return probeErr
			}

			fmt.Fprintf(w, "cluster %s\n\n", color.New(color.Bold).Sprint(dep.ClusterName))
			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"Service", "Status", "Rollout", "Tasks", "Task Def", "Deployed"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, st := range states {
				tasks := fmt.Sprintf("%d/%d", st.Running, st.Desired)
				if st.Pending > 0 {
					tasks += fmt.Sprintf(" +%d pending", st.Pending)
				}
				deployed := ""
				if !st.DeployedAt.IsZero() {
					deployed = humanize.Time(st.DeployedAt)
				}
				table.Append([]string{
					st.Name,
					colorServiceStatus(st.Status),
					colorRollout(st.RolloutState),
					tasks,
					st.TaskDefinition,
					deployed,
				})
			}
			table.Render()

			if last != nil {
				runStatus := string(last.Status)
				switch last.Status {
				case deploy.StatusOK:
					runStatus = color.GreenString(runStatus)
				case deploy.StatusFailed:
					runStatus = color.RedString(runStatus)
				}
				line := fmt.Sprintf("\nlast update: %s (%s) %s",
					runStatus, strings.Join(last.Services, ", "), humanize.Time(last.FinishedAt))
				if last.Tag != "" {
					line += " tag " + last.Tag
				}
				if st, ok := last.FailedStep(); ok {
					line += " at step " + st.Name
				}
				fmt.Fprintln(w, line)
			} else if showLast {
				fmt.Fprintln(w, "\nlast update: none recorded")
			}

			if pr != nil {
				if probeErr != nil {
					return probeErr
				}
				fmt.Fprintf(w, "\nbackend healthy at %s\n", pr.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable output")
	cmd.Flags().BoolVar(&showLast, "last", false, "include the last update run recorded on this machine")
	cmd.Flags().BoolVar(&doProbe, "probe", false, "probe the backend health endpoint")
	return cmd
}

// backendHealthURL builds the probe target. The base URL comes from
// BACKEND_URL when set, otherwise from the SSM parameter the stack
// published.
func backendHealthURL(ctx context.Context, env *cliEnv, ops *opsEnv) (string, error) {
	base := env.Cfg.BackendURL
	if base == "" {
		v, err := ops.Params.Get(ctx, params.KeyBackendURL)
		if err != nil {
			return "", fmt.Errorf("no backend url configured: %w", err)
		}
		base = v
	}
	return strings.TrimSuffix(base, "/") + env.Cfg.Backend.HealthPath, nil
}

func colorServiceStatus(s string) string {
	switch s {
	case "ACTIVE":
		return color.GreenString(s)
	case "DRAINING":
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func colorRollout(s string) string {
	switch s {
	case "COMPLETED":
		return color.GreenString(s)
	case "IN_PROGRESS":
		return color.YellowString(s)
	case "FAILED":
		return color.RedString(s)
	default:
		return s
	}
}
