// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/analyze"
	"github.com/marshalonis/modernizer/internal/gitrepo"
	"github.com/marshalonis/modernizer/internal/history"
	"github.com/marshalonis/modernizer/internal/report"
	"github.com/marshalonis/modernizer/internal/shell"
)

// scanReport is the --json shape of the scan command.
type scanReport struct {
	Analysis *report.Analysis `json:"analysis"`
	Findings []report.Finding `json:"findings"`
	Summary  string           `json:"summary"`
}

func newScanCmd() *cobra.Command {
	var (
		branch     string
		authMode   string
		token      string
		sshKeyFile string
		output     string
		asJSON     bool
		noSave     bool
	)

	cmd := &cobra.Command{
		Use:   "scan <repository-url>",
		Short: "Clone a repository and produce a modernization report",
		Long: `Scan makes a shallow clone of the repository, surveys its contents,
detects the tech stack and renders a modernization report in markdown
to stdout (or --output). Private repositories work with a personal
access token or an SSH key; --auth forces a mode instead of inferring
one from the credentials given. Completed runs are archived locally;
see history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf(cmd, "scan takes exactly one repository url")
			}
			if token != "" && sshKeyFile != "" {
				return usageErrorf(cmd, "--token and --ssh-key-file are mutually exclusive")
			}
			switch authMode {
			case "":
			case "pat":
				if sshKeyFile != "" {
					return usageErrorf(cmd, "--auth pat does not take --ssh-key-file")
				}
			case "ssh":
				if sshKeyFile == "" {
					return usageErrorf(cmd, "--auth ssh needs --ssh-key-file")
				}
			case "none":
				token, sshKeyFile = "", ""
			default:
				return usageErrorf(cmd, "unknown auth mode %q (expected pat, ssh or none)", authMode)
			}
			url := args[0]

			env, err := newEnv(cmd)
			if err != nil {
				return err
			}

			if token == "" && sshKeyFile == "" && authMode != "none" {
				token = os.Getenv("MODERNIZER_GIT_TOKEN")
			}
			if authMode == "pat" && token == "" {
				return usageErrorf(cmd, "--auth pat needs --token or MODERNIZER_GIT_TOKEN")
			}

			auth := gitrepo.Auth{Type: gitrepo.AuthNone}
			switch {
			case token != "":
				auth = gitrepo.Auth{Type: gitrepo.AuthPAT, Token: token}
			case sshKeyFile != "":
				key, err := os.ReadFile(sshKeyFile) //nolint:gosec // path given by the user
				if err != nil {
					return fmt.Errorf("reading ssh key: %w", err)
				}
				auth = gitrepo.Auth{Type: gitrepo.AuthSSH, Key: string(key)}
			}

			var store *history.Store
			if !noSave {
				store, err = history.Open(env.Cfg.HistoryDB)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
			}

			// git chatter goes to stderr so stdout stays clean markdown.
			cloneRunner := &shell.Local{Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr(), Log: env.Log}
			cloner := &gitrepo.Cloner{Runner: cloneRunner, Log: env.Log}

			runner := &analyze.Runner{Clone: cloner.Clone, Store: store, Log: env.Log}
			res, err := runner.Run(cmd.Context(), analyze.Request{URL: url, Branch: branch, Auth: auth})
			if err != nil {
				return err
			}
			if store != nil {
				env.Log.Info("analysis archived", zap.String("id", res.Entry.ID))
			}

			out := []byte(res.Markdown)
			if asJSON {
				b, err := json.MarshalIndent(scanReport{
					Analysis: res.Analysis,
					Findings: res.Findings,
					Summary:  report.Summary(res.Analysis, res.Findings),
				}, "", "  ")
				if err != nil {
					return err
				}
				out = append(b, '\n')
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil { //nolint:gosec // report, not a secret
					return fmt.Errorf("writing report: %w", err)
				}
				env.Log.Info("report written", zap.String("path", output))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to analyze (default branch when empty)")
	cmd.Flags().StringVar(&authMode, "auth", "", "clone auth mode: pat, ssh or none (inferred when unset)")
	cmd.Flags().StringVar(&token, "token", "", "personal access token for private HTTPS clones (or MODERNIZER_GIT_TOKEN)")
	cmd.Flags().StringVar(&sshKeyFile, "ssh-key-file", "", "path to a private key for SSH clones")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the analysis as JSON instead of markdown")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive this run in history")
	return cmd
}
