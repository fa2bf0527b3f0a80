// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package dockercli drives the docker binary for build, push and
// registry login. It shells out rather than speaking the daemon API so
// the images match exactly what a developer gets running docker by hand.
package dockercli

import (
	"context"
	"fmt"
	"strings"

	"github.com/marshalonis/modernizer/internal/shell"
)

type Docker struct {
	Bin      string
	Platform string
	Runner   shell.Runner
}

// Login authenticates the docker client against a registry host. The
// password goes over stdin, never through argv.
func (d *Docker) Login(ctx context.Context, host, username, password string) error {
	c := shell.Command{
		Name:  d.Bin,
		Args:  []string{"login", "--username", username, "--password-stdin", host},
		Stdin: strings.NewReader(password),
	}
	if err := d.Runner.Run(ctx, c); err != nil {
		return fmt.Errorf("docker login %s: %w", host, err)
	}
	return nil
}

// Build builds the image at dir and applies every tag in one pass.
func (d *Docker) Build(ctx context.Context, dir string, tags []string) error {
	if len(tags) == 0 {
		return fmt.Errorf("docker build %s: no tags given", dir)
	}

	args := []string{"build", "--platform", d.Platform}
	for _, t := range tags {
		args = append(args, "-t", t)
	}
	args = append(args, dir)

	if err := d.Runner.Run(ctx, shell.Command{Name: d.Bin, Args: args}); err != nil {
		return fmt.Errorf("docker build %s: %w", dir, err)
	}
	return nil
}

// Push pushes one tag.
func (d *Docker) Push(ctx context.Context, tag string) error {
	if err := d.Runner.Run(ctx, shell.Command{Name: d.Bin, Args: []string{"push", tag}}); err != nil {
		return fmt.Errorf("docker push %s: %w", tag, err)
	}
	return nil
}

// PushAll pushes tags in order, stopping at the first failure.
func (d *Docker) PushAll(ctx context.Context, tags []string) error {
	for _, t := range tags {
		if err := d.Push(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
