// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/marshalonis/modernizer/internal/deploy"
)

func TestPrintRunSummarySuccess(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	started := time.Date(2026, 8, 23, 14, 0, 0, 0, time.UTC)
	rec := deploy.Record{
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Services:   []string{"backend"},
		Tag:        "2026-08-23T14_00_00Z",
		Status:     deploy.StatusOK,
		Steps: []deploy.StepResult{
			{Name: "resolve-params", Status: deploy.StatusOK, Duration: "120ms"},
			{Name: "build:backend", Status: deploy.StatusOK, Duration: "52s"},
		},
	}

	var b bytes.Buffer
	printRunSummary(&b, rec)
	out := b.String()

	if !strings.Contains(out, "resolve-params (120ms)") {
		t.Errorf("expected the resolve step in the summary, got %q", out)
	}
	if !strings.Contains(out, "updated backend with tag 2026-08-23T14_00_00Z in 1m30s") {
		t.Errorf("expected the success footer, got %q", out)
	}
}

func TestPrintRunSummaryFailure(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	started := time.Date(2026, 8, 23, 14, 0, 0, 0, time.UTC)
	rec := deploy.Record{
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Second),
		Services:   []string{"backend"},
		Status:     deploy.StatusFailed,
		Steps: []deploy.StepResult{
			{Name: "resolve-params", Status: deploy.StatusOK, Duration: "120ms"},
			{Name: "build:backend", Status: deploy.StatusFailed, Duration: "3s", Error: "boom"},
			{Name: "push:backend", Status: deploy.StatusSkipped},
		},
	}

	var b bytes.Buffer
	printRunSummary(&b, rec)
	out := b.String()

	if !strings.Contains(out, "build:backend (3s): boom") {
		t.Errorf("expected the failing step with its error, got %q", out)
	}
	if !strings.Contains(out, "skipped push:backend") {
		t.Errorf("expected the skipped step, got %q", out)
	}
	if strings.Contains(out, "updated") || strings.Contains(out, "redeployed") {
		t.Errorf("failed runs must not print a success footer, got %q", out)
	}
}
