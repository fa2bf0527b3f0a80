// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/marshalonis/modernizer/internal/registry"
)

func newImagesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "images [frontend|backend|all]",
		Short: "List pushed images in ECR",
		Long: `Images lists what sits in the services' ECR repositories, newest
first. Timestamp tags identify past update runs and make usable
rollback targets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := serviceArgs(cmd, args)
			if err != nil {
				return err
			}
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			ops, err := env.connect(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dep, err := ops.Params.Deployment(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, name := range services {
				uri, _, err := dep.Target(name)
				if err != nil {
					return err
				}
				repo := registry.RepositoryName(uri)
				images, err := registry.Images(ctx, ops.AWS.ECR, repo)
				if err != nil {
					return err
				}
				if limit > 0 && len(images) > limit {
					images = images[:limit]
				}

				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s (%s)\n", color.New(color.Bold).Sprint(name), repo)
				if len(images) == 0 {
					fmt.Fprintln(w, "  no images pushed yet")
					continue
				}

				table := tablewriter.NewWriter(w)
				table.SetHeader([]string{"Tags", "Pushed", "Size", "Digest"})
				table.SetBorder(false)
				table.SetAutoWrapText(false)
				for _, img := range images {
					table.Append([]string{
						tagCell(img.Tags),
						humanize.Time(img.PushedAt),
						humanize.IBytes(uint64(img.SizeBytes)),
						shortDigest(img.Digest),
					})
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "images to show per repository, 0 for all")
	return cmd
}

// tagCell joins an image's tags, highlighting :latest.
func tagCell(tags []string) string {
	if len(tags) == 0 {
		return color.New(color.Faint).Sprint("<untagged>")
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		if t == "latest" {
			out[i] = color.GreenString(t)
		} else {
			out[i] = t
		}
	}
	return strings.Join(out, ", ")
}

// shortDigest trims sha256:abcdef... down to the first 12 hex chars.
func shortDigest(d string) string {
	d = strings.TrimPrefix(d, "sha256:")
	if len(d) > 12 {
		d = d[:12]
	}
	return d
}
