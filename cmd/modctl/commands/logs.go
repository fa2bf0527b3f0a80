// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/logtail"
)

func newLogsCmd() *cobra.Command {
	var (
		follow  bool
		since   time.Duration
		pattern string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "logs <frontend|backend>",
		Short: "Show service logs from CloudWatch",
		Long: `Logs prints recent events from the service's CloudWatch log group,
oldest first. With --follow it keeps polling for new events until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := singleServiceArg(cmd, args)
			if err != nil {
				return err
			}
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			svc, err := env.Cfg.Service(service)
			if err != nil {
				return err
			}
			ops, err := env.connect(cmd)
			if err != nil {
				return err
			}

			t := &logtail.Tailer{API: ops.AWS.Logs, Group: svc.LogGroup, Pattern: pattern}
			start := time.Now().Add(-since)
			w := cmd.OutOrStdout()

			if !follow {
				events, err := t.Fetch(cmd.Context(), start, limit)
				if err != nil {
					return err
				}
				for _, e := range events {
					printEvent(w, e)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			env.Log.Info("following logs", zap.String("group", svc.LogGroup))
			return t.Follow(ctx, start, func(e logtail.Event) { printEvent(w, e) })
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep polling for new events until interrupted")
	cmd.Flags().DurationVar(&since, "since", 10*time.Minute, "how far back to start")
	cmd.Flags().StringVar(&pattern, "filter", "", "CloudWatch Logs filter pattern")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events, 0 for all (ignored with --follow)")
	return cmd
}

func printEvent(w io.Writer, e logtail.Event) {
	ts := color.New(color.Faint).Sprint(e.Time.Format(time.RFC3339))
	stream := color.CyanString(shortStream(e.Stream))
	fmt.Fprintf(w, "%s %s %s\n", ts, stream, strings.TrimRight(e.Message, "\n"))
}

// shortStream trims an ECS log stream name (prefix/container/task-id)
// down to a recognizable task-id fragment.
func shortStream(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
