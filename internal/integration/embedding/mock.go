package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// vocabularySize matches the BERT vocabulary the real SPLADE model emits
// indices for.
const vocabularySize = 30522

// MockConnector - мок эмбеддингов: каждый токен хешируется в индекс словаря,
// вес равен числу вхождений токена.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, text string) (entity.SparseVector, error) {
	weights := make(map[int]float64)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		weights[int(h.Sum32()%vocabularySize)]++
	}

	vector := entity.NewSparseVector(weights)
	ctxzap.Info(ctx, "[MOCK] text embedded", zap.Int("vector_size", len(vector)))
	return vector, nil
}

func (m *MockConnector) Health(ctx context.Context) error {
	ctxzap.Debug(ctx, "[MOCK] embedding health check")
	return nil
}
