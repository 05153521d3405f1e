package llm

import (
	"fmt"
	"strings"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

// checkAnswer rejects replies that carry no text. Whitespace is kept as is.
func checkAnswer(provider, answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: %s returned an empty answer", entity.ErrUpstreamService, provider)
	}
	return answer, nil
}
