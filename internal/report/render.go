// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package report

import (
	"fmt"
	"strings"
)

// Render produces the markdown report. Output is fully determined by
// the inputs; rendering twice gives byte-identical documents.
func Render(a *Analysis, findings []Finding) string {
	var b strings.Builder

	b.WriteString("# Modernization Report\n\n")
	fmt.Fprintf(&b, "- **Repository:** %s\n", a.RepoURL)
	branch := a.Branch
	if branch == "" {
		branch = "(default)"
	}
	fmt.Fprintf(&b, "- **Branch:** %s\n", branch)
	fmt.Fprintf(&b, "- **Generated:** %s\n", a.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	files := fmt.Sprintf("%d", a.FileCount)
	if a.Truncated {
		files += " (listing truncated)"
	}
	fmt.Fprintf(&b, "- **Files surveyed:** %s\n\n", files)

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(executiveSummary(a, findings))
	b.WriteString("\n\n")

	b.WriteString("## Tech Stack Detected\n\n")
	b.WriteString("| Area | Detected |\n")
	b.WriteString("| --- | --- |\n")
	writeRow := func(area string, items []string) {
		fmt.Fprintf(&b, "| %s | %s |\n", area, orNone(items))
	}
	writeRow("Languages", a.Stack.Languages)
	writeRow("Frameworks", a.Stack.Frameworks)
	writeRow("Build tools", a.Stack.BuildTools)
	writeRow("CI/CD", a.Stack.CICD)
	writeRow("Containerization", a.Stack.Containerization)
	writeRow("Manifests", a.Stack.ManifestFiles)
	b.WriteString("\n")

	b.WriteString("## Findings by Category\n\n")
	for _, cat := range Categories() {
		fmt.Fprintf(&b, "### %s\n\n", cat)
		any := false
		for _, f := range findings {
			if f.Category != cat {
				continue
			}
			any = true
			fmt.Fprintf(&b, "- **[%s] %s.** %s *Recommended:* %s\n", f.Severity, f.Title, f.Detail, f.Action)
		}
		if !any {
			b.WriteString("No findings in this category.\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Modernization Roadmap\n\n")
	b.WriteString("### Quick wins\n\n")
	writeRoadmap(&b, findings, true)
	b.WriteString("\n### Strategic changes\n\n")
	writeRoadmap(&b, findings, false)
	b.WriteString("\n")

	b.WriteString("## Estimated Effort\n\n")
	if len(findings) == 0 {
		b.WriteString("Nothing to estimate.\n")
		return b.String()
	}
	b.WriteString("| Recommendation | Severity | Effort |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", f.Action, f.Severity, f.Effort)
	}
	return b.String()
}

// Quick wins are the small-effort items; everything else is strategic.
func writeRoadmap(b *strings.Builder, findings []Finding, quick bool) {
	any := false
	for _, f := range findings {
		if (f.Effort == EffortS) != quick {
			continue
		}
		any = true
		fmt.Fprintf(b, "- **%s:** %s\n", f.Title, f.Action)
	}
	if !any {
		b.WriteString("- None identified.\n")
	}
}

func executiveSummary(a *Analysis, findings []Finding) string {
	var parts []string

	if len(a.Stack.Languages) == 0 {
		parts = append(parts, "The survey found no recognizable application source.")
	} else {
		lead := fmt.Sprintf("This repository is primarily %s", join(a.Stack.Languages))
		if len(a.Stack.Frameworks) > 0 {
			lead += fmt.Sprintf(", built with %s", join(a.Stack.Frameworks))
		}
		parts = append(parts, lead+".")
	}

	high, medium, low := CountBySeverity(findings)
	parts = append(parts, fmt.Sprintf(
		"The survey covered %d files and produced %d findings: %d high, %d medium and %d low severity.",
		a.FileCount, len(findings), high, medium, low))

	if high > 0 {
		for _, f := range findings {
			if f.Severity == SeverityHigh {
				parts = append(parts, fmt.Sprintf("The most pressing issue: %s.", strings.ToLower(f.Title[:1])+f.Title[1:]))
				break
			}
		}
	} else {
		parts = append(parts, "No high severity issues were found.")
	}

	parts = append(parts, "The roadmap below separates quick wins from strategic changes, with T-shirt effort estimates per recommendation.")
	return strings.Join(parts, " ")
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func join(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
