package rag

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

// NoRelevantInformationAnswer is returned when no stored segment clears the similarity threshold.
const NoRelevantInformationAnswer = "I couldn't find any relevant information to answer your question."

const (
	contextPlaceholder  = "{{context}}"
	questionPlaceholder = "{{question}}"
)

var promptTemplate = heredoc.Doc(`
	You are a helpful assistant that answers questions based on the provided context.
	Use only the information from the context to answer the question.
	If the context doesn't contain enough information to answer the question, say so.

	Context:
	{{context}}

	Question: {{question}}

	Answer:
`)

func buildContext(segments []*entity.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, fmt.Sprintf("%s (Score: %.3f)", seg.Content, seg.Score))
	}
	return strings.Join(parts, "\n\n")
}

// renderPrompt substitutes both placeholders in one pass, so placeholder
// text inside the context or question is left as is.
func renderPrompt(context, question string) string {
	return strings.NewReplacer(
		contextPlaceholder, context,
		questionPlaceholder, question,
	).Replace(promptTemplate)
}
