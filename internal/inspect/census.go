// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package inspect walks a cloned repository: file census, bounded file
// reads, and tech stack detection. Everything operates on plain paths;
// nothing here knows about git or the network.
package inspect

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// MaxCensusFiles caps a census listing. Analyses only ever need a
// representative slice of a repository, not all of it.
const MaxCensusFiles = 300

// FilterOptions controls which files a census keeps.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to skip. Matching is
	// segment-aware: "vendor" excludes vendor/foo and pkg/vendor/bar,
	// but not vendor_stuff/foo.
	ExcludeDirs []string

	// ExcludeExtensions is a list of extensions (".png") to skip,
	// compared case-insensitively.
	ExcludeExtensions []string

	// MaxFiles caps the listing; zero means MaxCensusFiles.
	MaxFiles int
}

// DefaultExcludeDirs lists generated and dependency directories that
// never inform an analysis.
func DefaultExcludeDirs() []string {
	return []string{
		".git", "node_modules", "__pycache__", ".venv", "venv",
		"dist", "build", ".next", ".nuxt", "vendor", "target",
		"bin", "obj", ".gradle", ".mvn",
	}
}

// DefaultExcludeExtensions lists binary and asset extensions.
func DefaultExcludeExtensions() []string {
	return []string{
		".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".woff",
		".woff2", ".ttf", ".eot", ".mp4", ".mp3", ".zip", ".tar",
		".gz", ".lock",
	}
}

// Census is a bounded listing of a repository's files.
type Census struct {
	Files []string // relative paths, sorted
	// Truncated is set when MaxFiles cut the listing short.
	Truncated bool
}

// Walk lists files under root subject to the filter. Paths come back
// slash-separated and sorted.
func Walk(root string, opts FilterOptions) (Census, error) {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = MaxCensusFiles
	}

	excludeDir := map[string]bool{}
	for _, d := range opts.ExcludeDirs {
		excludeDir[d] = true
	}
	excludeExt := map[string]bool{}
	for _, e := range opts.ExcludeExtensions {
		excludeExt[strings.ToLower(e)] = true
	}

	var c Census
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if excludeDir[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if excludeExt[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if len(c.Files) >= maxFiles {
			c.Truncated = true
			return fs.SkipAll
		}
		c.Files = append(c.Files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Census{}, err
	}

	sort.Strings(c.Files)
	return c, nil
}
