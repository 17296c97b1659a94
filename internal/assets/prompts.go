// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time, keeping prompt wording reviewable as plain text.
package assets

import (
	_ "embed"
)

// AnalysisPrompt is the consolidated vision-model prompt: one call returns
// the culling decision, a naming suggestion, and a creative critique.
//
//go:embed prompts/analysis.txt
var AnalysisPrompt string

// NamingPrompt asks the model for only a descriptive filename and tags,
// used when naming burst picks.
//
//go:embed prompts/naming.txt
var NamingPrompt string
