package factory

import (
	"testing"

	"ai-docchat-core/pkg/llm/huggingface"
	"ai-docchat-core/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderOllama, "llama3", "", "")
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, ollama.DefaultBaseURL, p.(*ollama.OllamaProvider).BaseURL)

	p, err = NewLLMProvider(ProviderHuggingFace, "m", "", "key")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	_, err = NewLLMProvider("gpt", "m", "", "")
	assert.Error(t, err)
}
