// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package shell

import (
	"context"
	"io"
	"sync"
)

// Call is one recorded invocation, with any stdin drained to a string.
type Call struct {
	Command
	Input string
}

// Recorder is a Runner for tests. It records every command in order
// and answers from the optional Respond hook; a nil hook means every
// command succeeds with empty output.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	Respond func(c Command) (string, error)
}

func (r *Recorder) Run(ctx context.Context, c Command) error {
	_, err := r.record(c)
	return err
}

func (r *Recorder) Output(ctx context.Context, c Command) (string, error) {
	return r.record(c)
}

func (r *Recorder) record(c Command) (string, error) {
	call := Call{Command: c}
	if c.Stdin != nil {
		if b, err := io.ReadAll(c.Stdin); err == nil {
			call.Input = string(b)
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if r.Respond != nil {
		return r.Respond(c)
	}
	return "", nil
}

// Calls returns a copy of everything recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the recorded invocations rendered as command lines,
// which keeps sequence assertions in tests readable.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}
