// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxReadLines is the default cap on lines returned per file.
const MaxReadLines = 300

// Content is a bounded view of one file.
type Content struct {
	Text       string
	LinesShown int
	TotalLines int
	Truncated  bool
}

// ReadFile returns up to maxLines of a file inside root, guarding
// against path traversal. rel must stay inside root even after
// symlinks resolve; cloned repos are untrusted input.
func ReadFile(root, rel string, maxLines int) (Content, error) {
	if maxLines <= 0 {
		maxLines = MaxReadLines
	}

	rootReal, err := filepath.EvalSymlinks(root)
	if err != nil {
		return Content{}, fmt.Errorf("resolving repository root: %w", err)
	}

	target := filepath.Join(root, rel)
	if escapes(root, target) {
		return Content{}, fmt.Errorf("path %q escapes the repository", rel)
	}

	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return Content{}, fmt.Errorf("file not found: %s", rel)
	}
	if err != nil {
		return Content{}, fmt.Errorf("reading %s: %w", rel, err)
	}
	if info.IsDir() {
		return Content{}, fmt.Errorf("not a file: %s", rel)
	}

	// Resolve symlinks and re-check; a link may point anywhere.
	targetReal, err := filepath.EvalSymlinks(target)
	if err != nil {
		return Content{}, fmt.Errorf("resolving %s: %w", rel, err)
	}
	if escapes(rootReal, targetReal) {
		return Content{}, fmt.Errorf("path %q escapes the repository", rel)
	}

	data, err := os.ReadFile(targetReal) //nolint:gosec // guarded above
	if err != nil {
		return Content{}, fmt.Errorf("reading %s: %w", rel, err)
	}

	text := strings.ToValidUTF8(string(data), "�")
	if text == "" {
		return Content{}, nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	total := len(lines)

	c := Content{TotalLines: total, LinesShown: total}
	if total > maxLines {
		lines = lines[:maxLines]
		c.LinesShown = maxLines
		c.Truncated = true
	}
	c.Text = strings.Join(lines, "\n")
	return c, nil
}

// escapes reports whether target falls outside base, lexically.
func escapes(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
