// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marshalonis/modernizer/cmd/modctl/internal/clierr"
	"github.com/marshalonis/modernizer/internal/shell"
)

func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the infrastructure with CDK",
		Long: `Deploy provisions or updates the stacks (ECR repositories, the ECS
cluster and services, networking) via the CDK app, approving changes
automatically. The stack publishes the SSM parameters the other
commands read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProjectEnv(cmd)
			if err != nil {
				return err
			}
			return exitLike(env.cdk(cmd).Deploy(cmd.Context()))
		},
	}
}

// exitLike mirrors the subprocess's own exit code on modctl's exit.
func exitLike(err error) error {
	if code := shell.ExitCode(err); code > 0 {
		return clierr.WithCode(code, err)
	}
	return err
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show pending infrastructure changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProjectEnv(cmd)
			if err != nil {
				return err
			}
			return exitLike(env.cdk(cmd).Diff(cmd.Context()))
		},
	}
}

func newDestroyCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the infrastructure",
		Long: `Destroy deletes the stacks, including the ECS services and the ECR
repositories with every image in them. Asks for confirmation unless
--yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "destroy the modernizer stacks? This deletes the ECS services and all pushed images") {
				return fmt.Errorf("destroy aborted")
			}
			env, err := newProjectEnv(cmd)
			if err != nil {
				return err
			}
			return exitLike(env.cdk(cmd).Destroy(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
