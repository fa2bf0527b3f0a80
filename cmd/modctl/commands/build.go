// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [frontend|backend|all]",
		Short: "Build service images",
		Long: `Build the docker images for the named services, tagged :latest with
their ECR repository URIs. Nothing is pushed; use push or update for
that.`,
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

			ctx := cmd.Context()
			dep, err := ops.Params.Deployment(ctx)
			if err != nil {
				return err
			}

			d := ops.docker(cmd)
			for _, name := range services {
				uri, _, err := dep.Target(name)
				if err != nil {
					return err
				}
				dir, err := ops.serviceDir(name)
				if err != nil {
					return err
				}
				ops.Log.Info("building image",
					zap.String("service", name),
					zap.String("tag", uri+":latest"))
				if err := d.Build(ctx, dir, []string{uri + ":latest"}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
