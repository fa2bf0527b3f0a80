// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package inspect

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stack is what DetectStack learned about a repository. Slice order is
// deterministic so rendered reports are stable.
type Stack struct {
	Languages        []string `json:"languages"`
	Frameworks       []string `json:"frameworks"`
	BuildTools       []string `json:"build_tools"`
	CICD             []string `json:"ci_cd"`
	Containerization []string `json:"containerization"`
	ManifestFiles    []string `json:"manifest_files"`

	Signals Signals `json:"signals"`
}

// Signals are yes/no facts the finding rules consume.
type Signals struct {
	HasReadme        bool `json:"has_readme"`
	HasTests         bool `json:"has_tests"`
	HasCI            bool `json:"has_ci"`
	HasDockerfile    bool `json:"has_dockerfile"`
	HasCompose       bool `json:"has_compose"`
	HasLockfile      bool `json:"has_lockfile"`
	HasPackageJSON   bool `json:"has_package_json"`
	UnpinnedPython   bool `json:"unpinned_python"`
	CommittedEnvFile bool `json:"committed_env_file"`
	UsesWebpack      bool `json:"uses_webpack"`
}

type extLang struct{ ext, lang string }

// Ordered, so detected languages always list in the same order.
var extLangs = []extLang{
	{".py", "Python"}, {".js", "JavaScript"}, {".mjs", "JavaScript"},
	{".ts", "TypeScript"}, {".tsx", "TypeScript"}, {".java", "Java"},
	{".go", "Go"}, {".rb", "Ruby"}, {".php", "PHP"},
	{".cs", "C#"}, {".rs", "Rust"},
}

var manifestNames = []string{
	"package.json", "requirements.txt", "requirements-dev.txt",
	"pyproject.toml", "Pipfile", "pom.xml", "build.gradle",
	"go.mod", "Gemfile", "composer.json", "Cargo.toml",
	"setup.py", "setup.cfg",
}

var ciNames = []string{
	".gitlab-ci.yml", ".github/workflows", "Jenkinsfile",
	".circleci/config.yml", "azure-pipelines.yml", "bitbucket-pipelines.yml",
}

var containerNames = []string{
	"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
	"kubernetes", "k8s", "helm", ".helm",
}

type buildSignal struct{ tool, file string }

var buildSignals = []buildSignal{
	{"Maven", "pom.xml"}, {"Gradle", "build.gradle"},
	{"Make", "Makefile"}, {"npm", "package-lock.json"},
	{"yarn", "yarn.lock"}, {"pnpm", "pnpm-lock.yaml"},
	{"Poetry", "pyproject.toml"},
}

// jsFrameworks maps package.json dependency names to display labels.
type jsFramework struct{ dep, label string }

var jsFrameworks = []jsFramework{
	{"react", "React"}, {"vue", "Vue"},
	{"angular", "Angular"}, {"@angular/core", "Angular"},
	{"svelte", "Svelte"}, {"next", "Next"}, {"nuxt", "Nuxt"},
	{"express", "Express"}, {"koa", "Koa"}, {"fastify", "Fastify"},
}

var pyFrameworks = []string{"django", "flask", "fastapi", "tornado", "pyramid", "falcon"}

// DetectStack inspects well-known manifest and config files plus file
// extensions to describe what the repository is built with.
func DetectStack(root string) (*Stack, error) {
	s := &Stack{}

	for _, name := range manifestNames {
		if exists(root, name) {
			s.ManifestFiles = append(s.ManifestFiles, name)
		}
	}

	exts, testSeen, err := scanExtensions(root)
	if err != nil {
		return nil, err
	}
	for _, el := range extLangs {
		if exts[el.ext] && !contains(s.Languages, el.lang) {
			s.Languages = append(s.Languages, el.lang)
		}
	}

	deps := packageDeps(root)
	for _, fw := range jsFrameworks {
		if _, ok := deps[fw.dep]; ok && !contains(s.Frameworks, fw.label) {
			s.Frameworks = append(s.Frameworks, fw.label)
		}
	}

	unpinned := false
	reqFiles, _ := filepath.Glob(filepath.Join(root, "requirements*.txt"))
	for _, rf := range reqFiles {
		data, err := os.ReadFile(rf) //nolint:gosec // matched under root
		if err != nil {
			continue
		}
		content := strings.ToLower(string(data))
		for _, fw := range pyFrameworks {
			label := strings.ToUpper(fw[:1]) + fw[1:]
			if strings.Contains(content, fw) && !contains(s.Frameworks, label) {
				s.Frameworks = append(s.Frameworks, label)
			}
		}
		if hasUnpinnedRequirement(string(data)) {
			unpinned = true
		}
	}

	for _, name := range ciNames {
		if exists(root, name) {
			s.CICD = append(s.CICD, name)
		}
	}
	for _, name := range containerNames {
		if exists(root, name) {
			s.Containerization = append(s.Containerization, name)
		}
	}
	for _, b := range buildSignals {
		if exists(root, b.file) {
			s.BuildTools = append(s.BuildTools, b.tool)
		}
	}

	_, hasWebpackDep := deps["webpack"]
	s.Signals = Signals{
		HasReadme:        exists(root, "README.md") || exists(root, "README.rst") || exists(root, "README"),
		HasTests:         testSeen,
		HasCI:            len(s.CICD) > 0,
		HasDockerfile:    exists(root, "Dockerfile"),
		HasCompose:       exists(root, "docker-compose.yml") || exists(root, "docker-compose.yaml"),
		HasLockfile:      exists(root, "package-lock.json") || exists(root, "yarn.lock") || exists(root, "pnpm-lock.yaml"),
		HasPackageJSON:   exists(root, "package.json"),
		UnpinnedPython:   unpinned,
		CommittedEnvFile: exists(root, ".env"),
		UsesWebpack:      hasWebpackDep || exists(root, "webpack.config.js"),
	}
	return s, nil
}

// scanExtensions walks everything but .git, collecting lowercased file
// extensions and noting whether anything looks like a test.
func scanExtensions(root string) (map[string]bool, bool, error) {
	exts := map[string]bool{}
	testSeen := false

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if name == ".git" {
				return filepath.SkipDir
			}
			if name == "test" || name == "tests" || name == "__tests__" || name == "spec" {
				testSeen = true
			}
			return nil
		}
		exts[strings.ToLower(filepath.Ext(name))] = true
		if isTestFile(name) {
			testSeen = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return exts, testSeen, nil
}

func isTestFile(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "_test.go"),
		strings.HasSuffix(lower, "_test.py"),
		strings.HasPrefix(lower, "test_") && strings.HasSuffix(lower, ".py"),
		strings.Contains(lower, ".test.") || strings.Contains(lower, ".spec."):
		return true
	}
	return false
}

// packageDeps merges dependencies and devDependencies from a root
// package.json; a missing or broken file yields nothing.
func packageDeps(root string) map[string]string {
	data, err := os.ReadFile(filepath.Join(root, "package.json")) //nolint:gosec // fixed name under root
	if err != nil {
		return nil
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	deps := map[string]string{}
	for k, v := range pkg.Dependencies {
		deps[k] = v
	}
	for k, v := range pkg.DevDependencies {
		deps[k] = v
	}
	return deps
}

// hasUnpinnedRequirement reports a requirements line without an exact
// version pin.
func hasUnpinnedRequirement(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if !strings.Contains(line, "==") {
			return true
		}
	}
	return false
}

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
