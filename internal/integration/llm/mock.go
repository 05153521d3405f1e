package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockAnswerPrefix = "[MOCK] Answer generated from the following prompt:\n\n"

// MockConnector echoes the prompt back, which makes the retrieved context
// visible in answers during local runs.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer", zap.Int("prompt_length", len(prompt)))
	return mockAnswerPrefix + prompt, nil
}
