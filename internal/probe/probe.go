// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package probe checks service health endpoints over HTTP. This is
// the only place modctl retries anything: a probe is read-only, and
// load balancers flap briefly while a rollout settles.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultDeadline bounds a probe including all retries.
const DefaultDeadline = 30 * time.Second

// Health polls url until it answers 2xx or the deadline passes.
// Returns the last failure when it never came up.
func Health(ctx context.Context, client *http.Client, url string, deadline time.Duration) error {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if deadline <= 0 {
		deadline = DefaultDeadline
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building probe request: %w", err))
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("probing %s: %w", url, err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("probing %s: status %s", url, resp.Status)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = deadline

	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
