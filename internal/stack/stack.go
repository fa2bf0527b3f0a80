// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package stack wraps the CDK app that provisions the infrastructure.
// modctl does not model any of the resources itself; it hands off to
// cdk and streams whatever cdk prints.
package stack

import (
	"context"
	"fmt"

	"github.com/marshalonis/modernizer/internal/shell"
)

type CDK struct {
	Bin    string
	Dir    string // the CDK app directory, where cdk.json lives
	Runner shell.Runner
}

// Deploy provisions or updates every stack without prompting. The CDK
// app publishes the SSM wiring the rest of modctl reads.
func (c *CDK) Deploy(ctx context.Context) error {
	return c.run(ctx, "deploy", "--all", "--require-approval", "never")
}

// Diff shows pending infrastructure changes. cdk diff exits non-zero
// when it cannot compute a diff, not when differences exist.
func (c *CDK) Diff(ctx context.Context) error {
	return c.run(ctx, "diff", "--all")
}

// Destroy tears the stacks down without prompting.
func (c *CDK) Destroy(ctx context.Context) error {
	return c.run(ctx, "destroy", "--all", "--force")
}

func (c *CDK) run(ctx context.Context, args ...string) error {
	err := c.Runner.Run(ctx, shell.Command{Name: c.Bin, Args: args, Dir: c.Dir})
	if err != nil {
		return fmt.Errorf("cdk %s: %w", args[0], err)
	}
	return nil
}
