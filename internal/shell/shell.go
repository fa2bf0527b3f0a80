// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package shell runs external tools (docker, git, cdk) behind a small
// interface so command pipelines can be exercised without a toolchain.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Command describes one external invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // extra KEY=VALUE entries appended to the inherited env
	Stdin io.Reader
}

// Line renders the invocation the way a user would type it. Used in
// logs and error messages; never includes stdin.
func (c Command) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands. Run streams output through; Output
// captures stdout for the caller.
type Runner interface {
	Run(ctx context.Context, c Command) error
	Output(ctx context.Context, c Command) (string, error)
}

// Local runs commands on the host. Zero value streams to the
// process's own stdout and stderr.
type Local struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

func (l *Local) Run(ctx context.Context, c Command) error {
	cmd := l.prepare(ctx, c)
	cmd.Stdout = l.stdout()
	cmd.Stderr = l.stderr()

	l.debug(c)
	if err := cmd.Run(); err != nil {
		return commandError(c, err, nil)
	}
	return nil
}

func (l *Local) Output(ctx context.Context, c Command) (string, error) {
	cmd := l.prepare(ctx, c)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.debug(c)
	if err := cmd.Run(); err != nil {
		return stdout.String(), commandError(c, err, stderr.Bytes())
	}
	return stdout.String(), nil
}

func (l *Local) prepare(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

func (l *Local) stdout() io.Writer {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l *Local) stderr() io.Writer {
	if l.Stderr != nil {
		return l.Stderr
	}
	return os.Stderr
}

func (l *Local) debug(c Command) {
	if l.Log != nil {
		l.Log.Debug("exec", zap.String("cmd", c.Line()), zap.String("dir", c.Dir))
	}
}

// ExitCode digs the process exit status out of an error chain, or -1
// when the command never ran.
func ExitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// exitError keeps the process's ExitError in the chain for ExitCode
// while showing a readable message.
type exitError struct {
	msg   string
	cause *exec.ExitError
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) Unwrap() error { return e.cause }

func commandError(c Command, err error, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: command not found in PATH", c.Name)
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		msg := fmt.Sprintf("%s exited with code %d", c.Name, ee.ExitCode())
		if tail := lastLines(stderr, 20); tail != "" {
			msg += ": " + tail
		}
		return &exitError{msg: msg, cause: ee}
	}
	return fmt.Errorf("running %s: %w", c.Name, err)
}

// lastLines keeps error messages readable when a tool dumps pages of
// output before failing.
func lastLines(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = append([]string{"..."}, lines[len(lines)-n:]...)
	}
	return strings.Join(lines, "\n")
}
