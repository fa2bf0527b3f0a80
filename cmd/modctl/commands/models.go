// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package commands

import (
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marshalonis/modernizer/internal/catalog"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the Bedrock models the backend accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}

			def := env.Cfg.DefaultModelID
			if !catalog.IsKnown(def) {
				env.Log.Warn("configured default model is not in the catalog",
					zap.String("model", def))
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Model ID", "Label", ""})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, m := range catalog.Available() {
				mark := ""
				if m.ID == def {
					mark = color.GreenString("default")
				}
				table.Append([]string{m.ID, m.Label, mark})
			}
			table.Render()
			return nil
		},
	}
}
