package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector produces deterministic bag-of-words vectors so that texts
// sharing words end up close to each other. No network access.
type MockConnector struct {
	dimension int
}

func NewMockConnector(dimension int) *MockConnector {
	return &MockConnector{dimension: dimension}
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, m.dimension)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New64a()
		_, _ = h.Write([]byte(w))
		sum := h.Sum64()

		idx := int(sum % uint64(m.dimension))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		norm = 1
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}

	ctxzap.Debug(ctx, "[MOCK] text embedded", zap.Int("words", len(words)))
	return vec, nil
}
