package llm

import (
	"fmt"
	"strings"
)

// contextSeparator joins retrieved passages inside the prompt so the
// model can tell individual sources apart.
const contextSeparator = "\n\n---\n\n"

const conversationTemplate = `You are a friendly and knowledgeable AI research assistant.
Respond to the user's query conversationally, while maintaining accuracy and professionalism.

User query:
---
%s
---

Context from documents (if available):
%s

Provide a helpful, accurate response based on the context provided. If the context doesn't contain relevant information, acknowledge this and provide what general knowledge you can.`

// BuildConversationPrompt assembles the RAG prompt from the user query
// and the retrieved context passages.
func BuildConversationPrompt(query string, contextChunks []string) string {
	contextBlock := "(no document context)"
	if len(contextChunks) > 0 {
		contextBlock = strings.Join(contextChunks, contextSeparator)
	}
	return fmt.Sprintf(conversationTemplate, query, contextBlock)
}
