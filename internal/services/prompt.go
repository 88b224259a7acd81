package services

import (
	"strings"

	"github.com/markdave123-py/documind/internal/models"
)

const systemPromptHead = `You are DocuMind, an expert AI assistant.
You have two modes:
1. **Chat Mode:** If the user greets you (hi, hello) or asks general questions, be polite and helpful.
2. **Analysis Mode:** If the user asks about the document, use the CONTEXT below.

RULES:
- If the answer is in the CONTEXT, cite the source filename.
- If the user asks a specific document question but the CONTEXT is empty, say: "I couldn't find that in the document."
- Do not make up facts about the document.

<context>
`

const systemPromptTail = `
</context>`

// NoAnswerReply is what the assistant is told to say when a document
// question has no supporting context.
const NoAnswerReply = "I couldn't find that in the document."

// BuildContext renders matches as "Source: <filename>\n<content>" blocks
// separated by blank lines, in retrieval order.
func BuildContext(matches []models.Match) string {
	if len(matches) == 0 {
		return ""
	}
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = "Source: " + m.Filename() + "\n" + m.Content
	}
	return strings.Join(blocks, "\n\n")
}

// SystemPrompt embeds the context block between <context> tags.
func SystemPrompt(contextBlock string) string {
	return systemPromptHead + contextBlock + systemPromptTail
}
