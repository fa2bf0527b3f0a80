// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package projectroot locates the root of a modernizer checkout.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Markers that identify the project root, in order of preference.
// modernizer.yaml wins so the tool also works in exported (non-git) trees.
var markers = []string{"modernizer.yaml", ".git"}

// Find walks upward from start until it reaches a directory containing one
// of the root markers. It returns the absolute path of that directory.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", start, err)
	}

	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no project root found above %q (looked for %v)", start, markers)
		}
		dir = parent
	}
}
