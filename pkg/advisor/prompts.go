package advisor

import (
	_ "embed"
)

//go:embed prompts/advisor_prompt.md
var systemPrompt string

// GetSystemPrompt returns the instructions sent ahead of every explanation request
func GetSystemPrompt() string {
	return systemPrompt
}
