// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package deploy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunStepsAllPass(t *testing.T) {
	var ran []string
	step := func(name string) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			ran = append(ran, name)
			return nil
		}}
	}

	rec, err := RunSteps(context.Background(), zap.NewNop(), []Step{step("one"), step("two")})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two"}, ran)
	assert.Equal(t, StatusOK, rec.Status)
	require.Len(t, rec.Steps, 2)
	assert.Equal(t, StatusOK, rec.Steps[0].Status)
	assert.NotEmpty(t, rec.Steps[0].Duration)
	assert.False(t, rec.StartedAt.IsZero())
	assert.False(t, rec.FinishedAt.Before(rec.StartedAt))
}

func TestRunStepsStopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("registry unreachable")
	steps := []Step{
		{Name: "ok", Run: func(ctx context.Context) error { ran = append(ran, "ok"); return nil }},
		{Name: "bad", Run: func(ctx context.Context) error { ran = append(ran, "bad"); return boom }},
		{Name: "never", Run: func(ctx context.Context) error { ran = append(ran, "never"); return nil }},
	}

	rec, err := RunSteps(context.Background(), zap.NewNop(), steps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "bad:")

	assert.Equal(t, []string{"ok", "bad"}, ran)
	assert.Equal(t, StatusFailed, rec.Status)
	require.Len(t, rec.Steps, 3)
	assert.Equal(t, StatusOK, rec.Steps[0].Status)
	assert.Equal(t, StatusFailed, rec.Steps[1].Status)
	assert.Equal(t, "registry unreachable", rec.Steps[1].Error)
	assert.Equal(t, StatusSkipped, rec.Steps[2].Status)

	failed, ok := rec.FailedStep()
	require.True(t, ok)
	assert.Equal(t, "bad", failed.Name)
}

func TestRecordStoreRoundTrip2(t *testing.T) {
	store := NewRecordStore(t.TempDir() + "/.modernizer")

	missing, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, missing)

	rec := Record{
		StartedAt:  time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 23, 12, 4, 30, 0, time.UTC),
		Services:   []string{"frontend"},
		Tag:        "2026-08-23T12_00_00Z",
		Status:     StatusOK,
		Steps: []StepResult{
			{Name: "build:frontend", Status: StatusOK, Duration: "1m2s"},
		},
	}
	require.NoError(t, store.Write(rec))

	got, err := store.Read()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)
}

func TestRecordStoreReset2(t *testing.T) {
	dir := t.TempDir() + "/.modernizer"
	store := NewRecordStore(dir)
	require.NoError(t, store.Write(Record{Status: StatusOK}))
	require.NoError(t, store.Reset())

	got, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, got)
}
