// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/marshalonis/modernizer/cmd/modctl/commands"
	"github.com/marshalonis/modernizer/cmd/modctl/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
