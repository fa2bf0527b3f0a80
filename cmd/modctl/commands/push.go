// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/registry"
)

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [frontend|backend|all]",
		Short: "Push built service images to ECR",
		Long: `Push the locally built :latest images for the named services to their
ECR repositories. A registry login with fresh credentials happens
first. Running ECS tasks are not touched; use update to roll them.`,
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
			creds, err := registry.Auth(ctx, ops.AWS.ECR)
			if err != nil {
				return err
			}

			d := ops.docker(cmd)
			if err := d.Login(ctx, creds.Host, creds.Username, creds.Password); err != nil {
				return err
			}
			for _, name := range services {
				uri, _, err := dep.Target(name)
				if err != nil {
					return err
				}
				ops.Log.Info("pushing image",
					zap.String("service", name),
					zap.String("tag", uri+":latest"))
				if err := d.Push(ctx, uri+":latest"); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
