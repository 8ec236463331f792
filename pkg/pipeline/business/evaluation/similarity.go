package evaluation

import (
	"context"
	"fmt"
	"math"

	"github.com/eser/distill/pkg/pipeline/adapters/openai"
)

// compareValues scores the similarity of two structured-output field values
// in [0,1]. Strings are compared by cosine similarity of their embeddings,
// numbers by relative distance. Returns false when the two values are not of
// a comparable kind.
func (s *Service) compareValues(ctx context.Context, val1, val2 any) (float64, bool, error) {
	switch v1 := val1.(type) {
	case string:
		v2, ok := val2.(string)
		if !ok {
			return 0, false, nil
		}

		score, err := s.embeddingSimilarity(ctx, v1, v2)
		if err != nil {
			return 0, false, err
		}

		return score, true, nil
	case float64:
		v2, ok := val2.(float64)
		if !ok {
			return 0, false, nil
		}

		return numericSimilarity(v1, v2), true, nil
	default:
		return 0, false, nil
	}
}

// embeddingSimilarity embeds both strings in a single request and returns
// their cosine similarity clamped to [0,1].
func (s *Service) embeddingSimilarity(ctx context.Context, text1, text2 string) (float64, error) {
	if text1 == text2 {
		return 1, nil
	}

	response, err := s.embedder.CreateEmbeddings(ctx, openai.CreateEmbeddingsRequest{
		Model:          s.Config.EmbeddingModel,
		Input:          []string{text1, text2},
		EncodingFormat: "float",
		Dimensions:     s.Config.EmbeddingDimensions,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to embed values for comparison: %w", err)
	}

	if len(response.Data) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(response.Data))
	}

	return clamp01(cosineSimilarity(response.Data[0].Embedding, response.Data[1].Embedding)), nil
}

// numericSimilarity is 1 - |a-b| / max(|a|,|b|), and 1 when both are zero.
func numericSimilarity(a, b float64) float64 {
	maxAbs := math.Max(math.Abs(a), math.Abs(b))
	if maxAbs == 0 {
		return 1
	}

	return clamp01(1 - math.Abs(a-b)/maxAbs)
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
