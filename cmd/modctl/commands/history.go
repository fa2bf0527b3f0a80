// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/marshalonis/modernizer/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived analysis runs",
		Long: `History works with the local archive of past scan runs. Entries are
addressed by id; any unique prefix from a listing works.`,
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

// openHistory resolves config and opens the archive.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	env, err := newEnv(cmd)
	if err != nil {
		return nil, err
	}
	return history.Open(env.Cfg.HistoryDB)
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.List(limit)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "entries to show")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one archived report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf(cmd, "show takes exactly one analysis id")
			}
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, err := store.Get(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), entry.Report)
			return err
		},
	}
}

func newHistorySearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search analyses by repository url or summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf(cmd, "search takes exactly one term")
			}
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Search(args[0])
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one archived analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf(cmd, "delete takes exactly one analysis id")
			}
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(entry.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", shortID(entry.ID), entry.RepoURL)
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every archived analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "delete all archived analyses?") {
				return fmt.Errorf("clear aborted")
			}
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d analyses\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func printEntries(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no analyses recorded")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Repository", "Branch", "When", "Languages", "Findings"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, e := range entries {
		branch := e.Branch
		if branch == "" {
			branch = "(default)"
		}
		table.Append([]string{
			shortID(e.ID),
			e.RepoURL,
			branch,
			humanize.Time(e.CreatedAt),
			e.Languages,
			strconv.Itoa(e.Findings),
		})
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
