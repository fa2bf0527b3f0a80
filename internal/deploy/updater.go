// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package deploy

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marshalonis/modernizer/internal/params"
	"github.com/marshalonis/modernizer/internal/registry"
)

// Updater rolls out new images for one or more services. Collaborators
// are plain functions so pipelines can run against fakes.
type Updater struct {
	Resolve    func(ctx context.Context) (params.Deployment, error)
	Login      func(ctx context.Context, host string) error
	Build      func(ctx context.Context, dir string, tags []string) error
	Push       func(ctx context.Context, tags []string) error
	Redeploy   func(ctx context.Context, cluster, service string) error
	WaitStable func(ctx context.Context, cluster, service string) error

	// ServiceDir maps a canonical service name to its build context.
	ServiceDir func(name string) (string, error)

	Log *zap.Logger
	Now func() time.Time
}

// Options tune a single update run.
type Options struct {
	// SkipBuild redeploys whatever :latest currently points at,
	// skipping the build and push steps entirely.
	SkipBuild bool
	// NoWait returns right after the redeploys are accepted.
	NoWait bool
	// Parallel builds and pushes all services concurrently. Redeploys
	// still happen one service at a time.
	Parallel bool
}

// Run updates the named services in order: resolve wiring, log in to
// the registry, then per service build, push, force redeploy and wait
// for stability. The first failing step aborts the run.
func (u *Updater) Run(ctx context.Context, services []string, opts Options) (Record, error) {
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	tag := registry.TimestampTag(now())

	// Filled by the resolve step, read by everything after it.
	var dep params.Deployment

	type target struct {
		name    string
		dir     string
		ecrURI  string
		service string
		tags    []string
	}
	targets := make([]*target, 0, len(services))
	for _, name := range services {
		dir, err := u.ServiceDir(name)
		if err != nil {
			return Record{}, err
		}
		targets = append(targets, &target{name: name, dir: dir})
	}

	steps := []Step{
		{Name: "resolve-params", Run: func(ctx context.Context) error {
			d, err := u.Resolve(ctx)
			if err != nil {
				return err
			}
			dep = d
			for _, t := range targets {
				uri, svc, err := dep.Target(t.name)
				if err != nil {
					return err
				}
				t.ecrURI = uri
				t.service = svc
				t.tags = []string{uri + ":latest", uri + ":" + tag}
			}
			return nil
		}},
	}

	if !opts.SkipBuild {
		steps = append(steps, Step{Name: "registry-login", Run: func(ctx context.Context) error {
			return u.Login(ctx, registry.Host(targets[0].ecrURI))
		}})
	}

	rollSteps := func(t *target) []Step {
		out := []Step{{Name: "redeploy:" + t.name, Run: func(ctx context.Context) error {
			return u.Redeploy(ctx, dep.ClusterName, t.service)
		}}}
		if !opts.NoWait {
			out = append(out, Step{Name: "wait:" + t.name, Run: func(ctx context.Context) error {
				return u.WaitStable(ctx, dep.ClusterName, t.service)
			}})
		}
		return out
	}

	switch {
	case opts.SkipBuild:
		for _, t := range targets {
			steps = append(steps, rollSteps(t)...)
		}
	case opts.Parallel && len(targets) > 1:
		// Build everything up front, concurrently, then roll the
		// services one at a time so a broken image stops the rollout
		// after the first service.
		steps = append(steps, Step{Name: "build+push:parallel", Run: func(ctx context.Context) error {
			g, gctx := errgroup.WithContext(ctx)
			for _, t := range targets {
				t := t
				g.Go(func() error {
					if err := u.Build(gctx, t.dir, t.tags); err != nil {
						return fmt.Errorf("%s: %w", t.name, err)
					}
					if err := u.Push(gctx, t.tags); err != nil {
						return fmt.Errorf("%s: %w", t.name, err)
					}
					return nil
				})
			}
			return g.Wait()
		}})
		for _, t := range targets {
			steps = append(steps, rollSteps(t)...)
		}
	default:
		// Full cycle per service, in order.
		for _, t := range targets {
			t := t
			steps = append(steps,
				Step{Name: "build:" + t.name, Run: func(ctx context.Context) error {
					return u.Build(ctx, t.dir, t.tags)
				}},
				Step{Name: "push:" + t.name, Run: func(ctx context.Context) error {
					return u.Push(ctx, t.tags)
				}})
			steps = append(steps, rollSteps(t)...)
		}
	}

	rec, err := RunSteps(ctx, u.Log, steps)
	rec.Services = services
	if !opts.SkipBuild {
		rec.Tag = tag
	}
	return rec, err
}
