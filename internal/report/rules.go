// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package report turns inspection results into a modernization report.
// Findings come from a fixed rule set evaluated in a fixed order, so
// the same repository always produces the same report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/marshalonis/modernizer/internal/inspect"
)

// Severity of a finding.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Effort is a T-shirt size for the recommended action.
type Effort string

const (
	EffortS Effort = "S"
	EffortM Effort = "M"
	EffortL Effort = "L"
)

// Categories every finding falls under.
const (
	CategoryCodeQuality  = "Code Quality & Modernization"
	CategoryArchitecture = "Architecture & Infrastructure"
	CategoryUIUX         = "UI/UX Modernization"
)

// Categories in rendering order.
func Categories() []string {
	return []string{CategoryCodeQuality, CategoryArchitecture, CategoryUIUX}
}

// Finding is one observation with a recommended action.
type Finding struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Action   string   `json:"action"`
	Effort   Effort   `json:"effort"`
}

// Analysis bundles what was learned about one repository.
type Analysis struct {
	RepoURL     string         `json:"repo_url"`
	Branch      string         `json:"branch"`
	GeneratedAt time.Time      `json:"generated_at"`
	Stack       *inspect.Stack `json:"stack"`
	FileCount   int            `json:"file_count"`
	Truncated   bool           `json:"truncated,omitempty"`
}

// Evaluate runs the rule set over the analysis. Rule order is the
// report order within each category.
func Evaluate(a *Analysis) []Finding {
	s := a.Stack
	sig := s.Signals
	var out []Finding

	add := func(f Finding) { out = append(out, f) }

	if len(s.Languages) == 0 {
		add(Finding{
			Category: CategoryCodeQuality,
			Severity: SeverityMedium,
			Title:    "No recognized source files",
			Detail:   "None of the surveyed files carry a recognized source extension.",
			Action:   "Confirm the repository and branch hold the application source.",
			Effort:   EffortS,
		})
	}
	if !sig.HasTests {
		add(Finding{
			Category: CategoryCodeQuality,
			Severity: SeverityHigh,
			Title:    "No test signals found",
			Detail:   "No test directories or test-named files were found anywhere in the tree.",
			Action:   "Introduce a test framework for the primary language and wire it into CI.",
			Effort:   EffortL,
		})
	}
	if sig.HasPackageJSON && !sig.HasLockfile {
		add(Finding{
			Category: CategoryCodeQuality,
			Severity: SeverityMedium,
			Title:    "JavaScript dependencies not locked",
			Detail:   "package.json is present but no package-lock.json, yarn.lock or pnpm-lock.yaml is committed.",
			Action:   "Commit a lockfile so builds resolve identical dependency trees.",
			Effort:   EffortS,
		})
	}
	if sig.UnpinnedPython {
		add(Finding{
			Category: CategoryCodeQuality,
			Severity: SeverityMedium,
			Title:    "Python dependencies not pinned",
			Detail:   "At least one requirements entry has no exact version pin.",
			Action:   "Pin requirements with == versions, or adopt pip-tools or Poetry.",
			Effort:   EffortS,
		})
	}
	if !sig.HasReadme {
		add(Finding{
			Category: CategoryCodeQuality,
			Severity: SeverityLow,
			Title:    "No README",
			Detail:   "The repository has no top-level README.",
			Action:   "Add a README covering setup, local development and deployment.",
			Effort:   EffortS,
		})
	}

	if !sig.HasCI {
		add(Finding{
			Category: CategoryArchitecture,
			Severity: SeverityHigh,
			Title:    "No CI/CD configuration",
			Detail:   "No pipeline definition was found (.gitlab-ci.yml, .github/workflows, Jenkinsfile or equivalent).",
			Action:   "Add a pipeline that builds, tests and deploys on every merge.",
			Effort:   EffortM,
		})
	}
	if !sig.HasDockerfile {
		add(Finding{
			Category: CategoryArchitecture,
			Severity: SeverityMedium,
			Title:    "Not containerized",
			Detail:   "No Dockerfile was found at the repository root.",
			Action:   "Add a Dockerfile so the service runs the same everywhere.",
			Effort:   EffortM,
		})
	}
	if sig.HasDockerfile && !sig.HasCompose {
		add(Finding{
			Category: CategoryArchitecture,
			Severity: SeverityLow,
			Title:    "No local orchestration",
			Detail:   "A Dockerfile exists but there is no docker-compose file for local development.",
			Action:   "Add a docker-compose.yml that starts the service with its dependencies.",
			Effort:   EffortS,
		})
	}
	if sig.CommittedEnvFile {
		add(Finding{
			Category: CategoryArchitecture,
			Severity: SeverityHigh,
			Title:    "Environment file committed",
			Detail:   "A .env file is committed at the repository root.",
			Action:   "Remove .env from version control and move its values to a secrets manager.",
			Effort:   EffortS,
		})
	}

	if sig.UsesWebpack {
		add(Finding{
			Category: CategoryUIUX,
			Severity: SeverityLow,
			Title:    "Legacy build toolchain",
			Detail:   "The frontend builds with webpack.",
			Action:   "Evaluate migrating the build to Vite for faster feedback.",
			Effort:   EffortM,
		})
	}

	return out
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) (high, medium, low int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		case SeverityLow:
			low++
		}
	}
	return
}

// Summary is the one-line digest stored in history.
func Summary(a *Analysis, findings []Finding) string {
	langs := "no recognized languages"
	if len(a.Stack.Languages) > 0 {
		langs = strings.Join(a.Stack.Languages, ", ")
	}
	high, _, _ := CountBySeverity(findings)
	return fmt.Sprintf("%s; %d findings (%d high)", langs, len(findings), high)
}
