// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/cmd/modctl/internal/clierr"
	"github.com/marshalonis/modernizer/internal/config"
	"github.com/marshalonis/modernizer/internal/deploy"
	"github.com/marshalonis/modernizer/internal/dockercli"
	"github.com/marshalonis/modernizer/internal/logging"
	"github.com/marshalonis/modernizer/internal/params"
	"github.com/marshalonis/modernizer/internal/platform"
	"github.com/marshalonis/modernizer/internal/projectroot"
	"github.com/marshalonis/modernizer/internal/registry"
	"github.com/marshalonis/modernizer/internal/shell"
	"github.com/marshalonis/modernizer/internal/stack"
)

// cliEnv is what every subcommand starts from: the resolved project
// root, the effective config and a logger honoring --verbose.
type cliEnv struct {
	Root string
	Cfg  *config.Config
	Log  *zap.Logger
}

// newEnv builds the environment for commands that can run anywhere
// (scan, history, models). Outside a checkout the working directory
// stands in for the root and defaults plus env overrides apply.
func newEnv(cmd *cobra.Command) (*cliEnv, error) {
	return buildEnv(cmd, false)
}

// newProjectEnv is newEnv for commands that must run inside the
// checkout, where the build contexts and the CDK app live.
func newProjectEnv(cmd *cobra.Command) (*cliEnv, error) {
	return buildEnv(cmd, true)
}

func buildEnv(cmd *cobra.Command, requireRoot bool) (*cliEnv, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logging.New(verbose)

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		if requireRoot {
			return nil, err
		}
		root = wd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return &cliEnv{Root: root, Cfg: cfg, Log: log}, nil
}

// runner streams tool output through the command's own writers, so
// tests and callers that capture output see everything.
func (e *cliEnv) runner(cmd *cobra.Command) *shell.Local {
	return &shell.Local{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr(), Log: e.Log}
}

// opsEnv adds the AWS clients the deploy-facing commands need.
type opsEnv struct {
	*cliEnv
	AWS    *platform.Clients
	Params *params.Store
}

func newOps(cmd *cobra.Command) (*opsEnv, error) {
	env, err := newProjectEnv(cmd)
	if err != nil {
		return nil, err
	}
	return env.connect(cmd)
}

// connect attaches the AWS clients to an already-built environment.
func (e *cliEnv) connect(cmd *cobra.Command) (*opsEnv, error) {
	aws, err := platform.New(cmd.Context(), e.Cfg.Region)
	if err != nil {
		return nil, err
	}
	return &opsEnv{
		cliEnv: e,
		AWS:    aws,
		Params: params.NewStore(aws.SSM, e.Cfg.SSMPrefix),
	}, nil
}

func (e *opsEnv) docker(cmd *cobra.Command) *dockercli.Docker {
	return &dockercli.Docker{Bin: e.Cfg.DockerBin, Platform: e.Cfg.Platform, Runner: e.runner(cmd)}
}

// updater wires the real collaborators into the update pipeline.
func (e *opsEnv) updater(cmd *cobra.Command) *deploy.Updater {
	d := e.docker(cmd)
	return &deploy.Updater{
		Resolve: e.Params.Deployment,
		Login: func(ctx context.Context, host string) error {
			creds, err := registry.Auth(ctx, e.AWS.ECR)
			if err != nil {
				return err
			}
			if host == "" {
				host = creds.Host
			}
			return d.Login(ctx, host, creds.Username, creds.Password)
		},
		Build: d.Build,
		Push:  d.PushAll,
		Redeploy: func(ctx context.Context, cluster, service string) error {
			return deploy.ForceRedeploy(ctx, e.AWS.ECS, cluster, service)
		},
		WaitStable: func(ctx context.Context, cluster, service string) error {
			return deploy.WaitStable(ctx, e.AWS.ECS, cluster, []string{service}, 0)
		},
		ServiceDir: e.serviceDir,
		Log:        e.Log,
	}
}

// serviceDir resolves a service's docker build context under the root.
func (e *cliEnv) serviceDir(name string) (string, error) {
	svc, err := e.Cfg.Service(name)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(e.Root, svc.Dir)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%s build dir %s: %w", name, dir, err)
	}
	return dir, nil
}

// recordStore persists update run records under .modernizer at the root.
func (e *cliEnv) recordStore() *deploy.RecordStore {
	return deploy.NewRecordStore(filepath.Join(e.Root, ".modernizer"))
}

func (e *cliEnv) cdk(cmd *cobra.Command) *stack.CDK {
	return &stack.CDK{Bin: e.Cfg.CDKBin, Dir: filepath.Join(e.Root, e.Cfg.CDKDir), Runner: e.runner(cmd)}
}

// serviceArgs expands the positional service argument. No argument
// means all services, in deploy order. Validation happens before any
// config or AWS access, so a typo never gets further than usage text.
func serviceArgs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{config.ServiceFrontend, config.ServiceBackend}, nil
	}
	switch args[0] {
	case "all":
		return []string{config.ServiceFrontend, config.ServiceBackend}, nil
	case config.ServiceFrontend, config.ServiceBackend:
		return []string{args[0]}, nil
	default:
		return nil, usageErrorf(cmd, "unknown service %q (expected frontend, backend or all)", args[0])
	}
}

// singleServiceArg is serviceArgs for commands that take exactly one
// service.
func singleServiceArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) != 1 {
		return "", usageErrorf(cmd, "%s takes exactly one service (frontend or backend)", cmd.Name())
	}
	switch args[0] {
	case config.ServiceFrontend, config.ServiceBackend:
		return args[0], nil
	default:
		return "", usageErrorf(cmd, "unknown service %q (expected frontend or backend)", args[0])
	}
}

// usageErrorf prints the command's usage and returns a usage-coded
// error, so bad invocations exit 2 rather than 1.
func usageErrorf(cmd *cobra.Command, format string, a ...any) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	return clierr.Newf(clierr.CodeUsage, format, a...)
}

// confirm asks a y/N question on the command's own streams.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
