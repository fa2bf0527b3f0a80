// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package dockercli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshalonis/modernizer/internal/shell"
)

func newDocker(r *shell.Recorder) *Docker {
	return &Docker{Bin: "docker", Platform: "linux/amd64", Runner: r}
}

func TestLoginSendsPasswordOverStdin(t *testing.T) {
	r := &shell.Recorder{}
	d := newDocker(r)

	err := d.Login(context.Background(), "123.dkr.ecr.us-east-1.amazonaws.com", "AWS", "hunter2")
	require.NoError(t, err)

	calls := r.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "docker login --username AWS --password-stdin 123.dkr.ecr.us-east-1.amazonaws.com", calls[0].Line())
	assert.Equal(t, "hunter2", calls[0].Input)
}

func TestBuildAppliesAllTags(t *testing.T) {
	r := &shell.Recorder{}
	d := newDocker(r)

	err := d.Build(context.Background(), "backend", []string{"repo:latest", "repo:2026-08-23T14_05_09Z"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"docker build --platform linux/amd64 -t repo:latest -t repo:2026-08-23T14_05_09Z backend",
	}, r.Lines())
}

func TestBuildRequiresTags(t *testing.T) {
	d := newDocker(&shell.Recorder{})
	err := d.Build(context.Background(), "backend", nil)
	require.Error(t, err)
}

func TestPushAllStopsAtFirstFailure(t *testing.T) {
	r := &shell.Recorder{Respond: func(c shell.Command) (string, error) {
		if len(c.Args) > 1 && c.Args[1] == "repo:bad" {
			return "", errors.New("denied")
		}
		return "", nil
	}}
	d := newDocker(r)

	err := d.PushAll(context.Background(), []string{"repo:latest", "repo:bad", "repo:never"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker push repo:bad")
	assert.Equal(t, []string{"docker push repo:latest", "docker push repo:bad"}, r.Lines())
}
