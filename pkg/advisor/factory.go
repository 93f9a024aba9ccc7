package advisor

import (
	"context"
	"fmt"
)

// Providers lists the provider names NewProvider accepts
var Providers = []string{"gemini", "openai"}

func NewProvider(ctx context.Context, providerName, apiKey, modelName string) (LLMProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for %s, run 'credit-grader config set-key %s <key>'", providerName, providerName)
	}
	switch providerName {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey, modelName)
	case "openai":
		return NewOpenAIProvider(apiKey, modelName, ""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}
