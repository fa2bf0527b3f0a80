// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package logtail reads service logs out of CloudWatch Logs, either as
// a one-shot window or as a poll-based follow.
package logtail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// DefaultInterval is the follow poll cadence.
const DefaultInterval = 2 * time.Second

// Event is one log line.
type Event struct {
	Time    time.Time
	Stream  string
	Message string

	id string
}

// Tailer reads one log group.
type Tailer struct {
	API   cloudwatchlogs.FilterLogEventsAPIClient
	Group string
	// Pattern is a CloudWatch filter pattern; empty means everything.
	Pattern string
	// Interval between follow polls; zero means DefaultInterval.
	Interval time.Duration
}

// Fetch returns events since the given time, oldest first. limit 0
// means no cap.
func (t *Tailer) Fetch(ctx context.Context, since time.Time, limit int) ([]Event, error) {
	events, err := t.fetchFrom(ctx, since.UnixMilli(), limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (t *Tailer) fetchFrom(ctx context.Context, startMillis int64, limit int) ([]Event, error) {
	in := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(t.Group),
		StartTime:    aws.Int64(startMillis),
	}
	if t.Pattern != "" {
		in.FilterPattern = aws.String(t.Pattern)
	}

	var events []Event
	p := cloudwatchlogs.NewFilterLogEventsPaginator(t.API, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading log group %s: %w", t.Group, err)
		}
		for _, e := range page.Events {
			ev := Event{
				Message: aws.ToString(e.Message),
				Stream:  aws.ToString(e.LogStreamName),
				id:      aws.ToString(e.EventId),
			}
			if e.Timestamp != nil {
				ev.Time = time.UnixMilli(*e.Timestamp).UTC()
			}
			events = append(events, ev)
			if limit > 0 && len(events) >= limit {
				return events, nil
			}
		}
	}
	return events, nil
}

// Follow emits events since the given time and then keeps polling
// until the context is cancelled. Cancellation is the normal way to
// stop a follow, so it returns nil.
func (t *Tailer) Follow(ctx context.Context, since time.Time, emit func(Event)) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	// Polls re-read from the newest seen timestamp inclusively, with
	// already-emitted event ids skipped, so events sharing a
	// millisecond are not dropped at the boundary.
	cursor := since.UnixMilli()
	seen := map[string]bool{}

	poll := func() error {
		events, err := t.fetchFrom(ctx, cursor, 0)
		if err != nil {
			return err
		}
		for _, e := range events {
			if seen[e.id] {
				continue
			}
			emit(e)

			ts := e.Time.UnixMilli()
			if ts > cursor {
				cursor = ts
				seen = map[string]bool{}
			}
			seen[e.id] = true
		}
		return nil
	}

	if err := poll(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
