package factory

import (
	"fmt"

	"ai-docchat-core/pkg/llm"
	"ai-docchat-core/pkg/llm/huggingface"
	"ai-docchat-core/pkg/llm/ollama"
)

const (
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
)

// NewLLMProvider builds the configured backend. An empty baseURL selects the provider default.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderOllama:
		if baseURL == "" {
			baseURL = ollama.DefaultBaseURL
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case ProviderHuggingFace:
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
