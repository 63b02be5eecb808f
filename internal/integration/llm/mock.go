package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockAnswer is what MockConnector answers to every prompt.
const MockAnswer = "これはモックの回答です。"

// MockConnector - мок LLM коннектора для локальной разработки
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Generate - мок генерации ответа
func (m *MockConnector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer via LLM", zap.Int("prompt_length", len(prompt)))
	return MockAnswer, nil
}

func (m *MockConnector) Health(ctx context.Context) error {
	return nil
}
