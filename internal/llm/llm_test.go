package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docustack/retriever/internal/types"
)

type stubGenerator struct {
	answer string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	return s.answer, nil
}

func TestRegistryGet(t *testing.T) {
	specialist := &stubGenerator{answer: "specialist"}
	registry := NewRegistry(map[types.BackendID]Generator{
		types.BackendSpecialist: specialist,
	})

	g, err := registry.Get(types.BackendSpecialist)
	require.NoError(t, err)
	assert.Same(t, specialist, g)

	_, err = registry.Get(types.BackendConversational)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no generation backend")
}

func TestRegistryIDsStableOrder(t *testing.T) {
	registry := NewRegistry(map[types.BackendID]Generator{
		types.BackendSpecialist:     &stubGenerator{},
		types.BackendConversational: &stubGenerator{},
		types.BackendAnalytical:     &stubGenerator{},
	})

	assert.Equal(t, []types.BackendID{
		types.BackendAnalytical,
		types.BackendConversational,
		types.BackendSpecialist,
	}, registry.IDs())
}

func TestBuildConversationPromptWithContext(t *testing.T) {
	prompt := BuildConversationPrompt("what is raft?", []string{"passage one", "passage two"})

	assert.Contains(t, prompt, "what is raft?")
	assert.Contains(t, prompt, "passage one"+contextSeparator+"passage two")
	assert.NotContains(t, prompt, "(no document context)")
}

func TestBuildConversationPromptWithoutContext(t *testing.T) {
	prompt := BuildConversationPrompt("what is raft?", nil)

	assert.Contains(t, prompt, "(no document context)")
	// The separator only appears between passages.
	assert.Equal(t, 0, strings.Count(prompt, contextSeparator))
}
