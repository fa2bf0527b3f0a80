// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package projectroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFromNestedDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "modernizer.yaml"), []byte("region: us-east-1\n"), 0o644))

	nested := filepath.Join(root, "backend", "app", "services")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindAtRootItself(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	got, err := Find(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindPrefersConfigOverGit(t *testing.T) {
	// A checkout inside a larger git repo roots at the config file,
	// not at the enclosing repository.
	outer := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outer, ".git"), 0o755))

	inner := filepath.Join(outer, "tools", "modernizer")
	require.NoError(t, os.MkdirAll(inner, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inner, "modernizer.yaml"), nil, 0o644))

	got, err := Find(filepath.Join(inner, "cdk"))
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestFindFailsOutsideAnyProject(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no project root found")
}
