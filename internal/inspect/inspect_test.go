// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree lays out files under a fresh temp root. Values are file
// contents; parent directories come into being as needed.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	return root
}

func TestWalkSkipsGeneratedDirsAndBinaryExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":                      "print('hi')\n",
		"src/app.js":                   "console.log(1)\n",
		"node_modules/react/index.js":  "x",
		".git/config":                  "x",
		"assets/logo.png":              "x",
		"requirements.txt":             "flask==2.0\n",
		"vendor/lib.go":                "x",
		"docs/guide.md":                "x",
	})

	c, err := Walk(root, FilterOptions{
		ExcludeDirs:       DefaultExcludeDirs(),
		ExcludeExtensions: DefaultExcludeExtensions(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"docs/guide.md",
		"main.py",
		"requirements.txt",
		"src/app.js",
	}, c.Files)
	assert.False(t, c.Truncated)
}

func TestWalkCapsFileCount(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 30; i++ {
		files[filepath.Join("src", string(rune('a'+i%26))+"file"+string(rune('0'+i%10))+".py")] = "x"
	}
	root := writeTree(t, files)

	c, err := Walk(root, FilterOptions{MaxFiles: 10})
	require.NoError(t, err)
	assert.Len(t, c.Files, 10)
	assert.True(t, c.Truncated)
}

func TestReadFileTruncatesLongFiles(t *testing.T) {
	content := ""
	for i := 0; i < 10; i++ {
		content += "line\n"
	}
	root := writeTree(t, map[string]string{"app.py": content})

	c, err := ReadFile(root, "app.py", 4)
	require.NoError(t, err)
	assert.True(t, c.Truncated)
	assert.Equal(t, 4, c.LinesShown)
	assert.Equal(t, 10, c.TotalLines)
	assert.Equal(t, "line\nline\nline\nline", c.Text)
}

func TestReadFileWholeFile(t *testing.T) {
	root := writeTree(t, map[string]string{"short.txt": "one\ntwo\n"})

	c, err := ReadFile(root, "short.txt", 0)
	require.NoError(t, err)
	assert.False(t, c.Truncated)
	assert.Equal(t, 2, c.TotalLines)
	assert.Equal(t, "one\ntwo", c.Text)
}

func TestReadFileRejectsTraversal(t *testing.T) {
	root := writeTree(t, map[string]string{"app.py": "x"})

	_, err := ReadFile(root, "../outside.txt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the repository")

	_, err = ReadFile(root, "sub/../../etc/passwd", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the repository")
}

func TestReadFileMissingAndDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{"sub/file.txt": "x"})

	_, err := ReadFile(root, "nope.txt", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	_, err = ReadFile(root, "sub", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestDetectStackPythonService(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":          "app = FastAPI()\n",
		"requirements.txt": "fastapi==0.110.0\nuvicorn\n",
		"Dockerfile":       "FROM python:3.12\n",
		".gitlab-ci.yml":   "stages: [test]\n",
		"tests/test_main.py": "def test_ok(): pass\n",
	})

	s, err := DetectStack(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python"}, s.Languages)
	assert.Contains(t, s.Frameworks, "Fastapi")
	assert.Contains(t, s.ManifestFiles, "requirements.txt")
	assert.Equal(t, []string{".gitlab-ci.yml"}, s.CICD)
	assert.Equal(t, []string{"Dockerfile"}, s.Containerization)

	assert.True(t, s.Signals.HasTests)
	assert.True(t, s.Signals.HasCI)
	assert.True(t, s.Signals.HasDockerfile)
	assert.True(t, s.Signals.UnpinnedPython, "uvicorn line has no pin")
	assert.False(t, s.Signals.HasReadme)
}

func TestDetectStackNodeApp(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json":      `{"dependencies":{"react":"^18.0.0","express":"^4.18.0"},"devDependencies":{"webpack":"^5.0.0"}}`,
		"package-lock.json": "{}",
		"src/index.js":      "x",
		"src/app.test.js":   "x",
		"README.md":         "# app\n",
		".env":              "SECRET=1\n",
	})

	s, err := DetectStack(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"JavaScript"}, s.Languages)
	assert.Equal(t, []string{"React", "Express"}, s.Frameworks)
	assert.Contains(t, s.BuildTools, "npm")
	assert.Empty(t, s.CICD)

	assert.True(t, s.Signals.HasReadme)
	assert.True(t, s.Signals.HasTests)
	assert.True(t, s.Signals.HasLockfile)
	assert.True(t, s.Signals.UsesWebpack)
	assert.True(t, s.Signals.CommittedEnvFile)
	assert.False(t, s.Signals.HasCI)
	assert.False(t, s.Signals.HasDockerfile)
}

func TestDetectStackLanguageOrderIsStable(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tool.rs":  "x",
		"app.py":   "x",
		"serve.go": "x",
	})

	s, err := DetectStack(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go", "Rust"}, s.Languages)
}
