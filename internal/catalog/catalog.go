// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package catalog lists the Bedrock model IDs the analysis backend
// accepts. The set is fixed per release; region availability is the
// deployment's problem, not ours.
package catalog

// Model is one selectable Bedrock model.
type Model struct {
	ID    string
	Label string
}

// Available returns the supported models, recommended first.
func Available() []Model {
	return []Model{
		{
			ID:    "anthropic.claude-3-5-sonnet-20241022-v2:0",
			Label: "Claude 3.5 Sonnet (recommended)",
		},
		{
			ID:    "anthropic.claude-3-5-haiku-20241022-v1:0",
			Label: "Claude 3.5 Haiku (faster / cheaper)",
		},
		{
			ID:    "anthropic.claude-3-opus-20240229-v1:0",
			Label: "Claude 3 Opus (most capable)",
		},
	}
}

// IsKnown reports whether id is in the catalog.
func IsKnown(id string) bool {
	for _, m := range Available() {
		if m.ID == id {
			return true
		}
	}
	return false
}
