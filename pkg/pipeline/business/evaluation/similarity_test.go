package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, numericSimilarity(0.8, 0.8), 1e-9)
	assert.InDelta(t, 0.5, numericSimilarity(0.4, 0.8), 1e-9)
	assert.InDelta(t, 1.0, numericSimilarity(0, 0), 1e-9)
	assert.InDelta(t, 0.0, numericSimilarity(-1, 1), 1e-9)
	assert.InDelta(t, 0.0, numericSimilarity(0, 5), 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// mismatched or degenerate inputs score zero rather than erroring
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{1}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity(nil, nil), 1e-9)
}

func TestClamp01(t *testing.T) {
	assert.InDelta(t, 0.0, clamp01(-0.3), 1e-9)
	assert.InDelta(t, 0.7, clamp01(0.7), 1e-9)
	assert.InDelta(t, 1.0, clamp01(1.2), 1e-9)
}

func TestParseEvalID(t *testing.T) {
	label, index, ok := parseEvalID("eval-finetuned-12")
	assert.True(t, ok)
	assert.Equal(t, LabelFinetuned, label)
	assert.Equal(t, 12, index)

	label, index, ok = parseEvalID("eval-large-1")
	assert.True(t, ok)
	assert.Equal(t, LabelLarge, label)
	assert.Equal(t, 1, index)

	for _, customID := range []string{"request-3", "eval-unknown-1", "eval-base-x", "eval-base", ""} {
		_, _, ok := parseEvalID(customID)
		assert.False(t, ok, "expected %q to be rejected", customID)
	}
}
