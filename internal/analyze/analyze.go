// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package analyze runs one repository analysis end to end: clone,
// survey, evaluate, render, archive. The clone never outlives the run.
package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/gitrepo"
	"github.com/marshalonis/modernizer/internal/history"
	"github.com/marshalonis/modernizer/internal/inspect"
	"github.com/marshalonis/modernizer/internal/report"
)

// Request names the repository to analyze.
type Request struct {
	URL    string
	Branch string
	Auth   gitrepo.Auth
}

// Result is everything one run produced.
type Result struct {
	Analysis *report.Analysis
	Findings []report.Finding
	Markdown string
	// Entry is the archived record; zero when no store was attached.
	Entry history.Entry
}

// Runner wires an analysis run. Clone is a function so tests can hand
// back a prepared directory.
type Runner struct {
	Clone func(ctx context.Context, url, branch string, auth gitrepo.Auth) (*gitrepo.Checkout, error)
	// Store archives completed runs; nil disables archiving.
	Store *history.Store
	Log   *zap.Logger
	Now   func() time.Time
}

// Run executes one analysis. The checkout is removed before return,
// whatever happens.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	co, err := r.Clone(ctx, req.URL, req.Branch, req.Auth)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := co.Remove(); rerr != nil {
			r.Log.Warn("leaving clone behind", zap.String("dir", co.Dir), zap.Error(rerr))
		}
	}()

	census, err := inspect.Walk(co.Dir, inspect.FilterOptions{
		ExcludeDirs:       inspect.DefaultExcludeDirs(),
		ExcludeExtensions: inspect.DefaultExcludeExtensions(),
	})
	if err != nil {
		return nil, fmt.Errorf("surveying %s: %w", req.URL, err)
	}

	stack, err := inspect.DetectStack(co.Dir)
	if err != nil {
		return nil, fmt.Errorf("detecting stack of %s: %w", req.URL, err)
	}

	analysis := &report.Analysis{
		RepoURL:     req.URL,
		Branch:      co.Branch,
		GeneratedAt: now().UTC(),
		Stack:       stack,
		FileCount:   len(census.Files),
		Truncated:   census.Truncated,
	}
	findings := report.Evaluate(analysis)
	markdown := report.Render(analysis, findings)

	r.Log.Info("analysis complete",
		zap.String("url", req.URL),
		zap.Int("files", analysis.FileCount),
		zap.Int("findings", len(findings)))

	res := &Result{
		Analysis: analysis,
		Findings: findings,
		Markdown: markdown,
	}

	if r.Store != nil {
		entry, err := r.Store.Save(history.Entry{
			RepoURL:   req.URL,
			Branch:    co.Branch,
			CreatedAt: analysis.GeneratedAt,
			Languages: strings.Join(stack.Languages, ", "),
			Findings:  len(findings),
			Summary:   report.Summary(analysis, findings),
			Report:    markdown,
		})
		if err != nil {
			return nil, fmt.Errorf("archiving analysis: %w", err)
		}
		res.Entry = entry
	}
	return res, nil
}
