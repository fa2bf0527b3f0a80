// SPDX-License-Identifier: MIT

/*
modctl - operations CLI for the modernizer stack.

It builds and ships the frontend and backend container images, rolls the
ECS services that run them, drives the CDK app that provisions the
infrastructure, tails service logs, and runs repository modernization
scans from the terminal.

Copyright (c) 2026 Dave Marshalonis

Licensed under the MIT license; see LICENSE in the project root.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the modctl root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("MODCTL_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "modctl",
		Short:         "modctl - deployment and analysis tooling for the modernizer stack",
		Long:          "modctl builds, ships and operates the modernizer services on ECS, and runs repository modernization scans.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of modctl",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "modctl version %s\n", version)
		},
	})

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newDeployCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newDestroyCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newImagesCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newModelsCmd())

	return cmd
}
