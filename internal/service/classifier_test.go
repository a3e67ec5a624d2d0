package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmax(t *testing.T) {
	t.Run("should produce a probability distribution", func(t *testing.T) {
		probs := softmax([]float32{1.0, 2.0, 3.0})
		require.Len(t, probs, 3)

		var sum float64
		for _, p := range probs {
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("should preserve ordering of logits", func(t *testing.T) {
		probs := softmax([]float32{0.5, 3.2, -1.0, 2.1})
		assert.Greater(t, probs[1], probs[3])
		assert.Greater(t, probs[3], probs[0])
		assert.Greater(t, probs[0], probs[2])
	})

	t.Run("should give equal logits equal probability", func(t *testing.T) {
		probs := softmax([]float32{2.0, 2.0, 2.0, 2.0})
		for _, p := range probs {
			assert.InDelta(t, 0.25, p, 1e-9)
		}
	})

	t.Run("should be stable for large logits", func(t *testing.T) {
		probs := softmax([]float32{1000, 1001, 1002})
		var sum float64
		for _, p := range probs {
			require.False(t, math.IsNaN(p))
			require.False(t, math.IsInf(p, 0))
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("should handle empty input", func(t *testing.T) {
		assert.Nil(t, softmax(nil))
	})
}

func TestTopKPredictions(t *testing.T) {
	labels := []string{"pizza", "burger", "salad", "pasta", "sushi"}

	t.Run("should return top k in descending confidence order", func(t *testing.T) {
		probs := []float64{0.1, 0.4, 0.05, 0.3, 0.15}
		preds := topKPredictions(probs, labels, 3)

		require.Len(t, preds, 3)
		assert.Equal(t, "burger", preds[0].Label)
		assert.Equal(t, "pasta", preds[1].Label)
		assert.Equal(t, "sushi", preds[2].Label)
		assert.InDelta(t, 0.4, preds[0].Confidence, 1e-9)
		assert.GreaterOrEqual(t, preds[0].Confidence, preds[1].Confidence)
		assert.GreaterOrEqual(t, preds[1].Confidence, preds[2].Confidence)
	})

	t.Run("should cap k at the number of classes", func(t *testing.T) {
		probs := []float64{0.5, 0.3, 0.2}
		preds := topKPredictions(probs, labels[:3], 10)
		assert.Len(t, preds, 3)
	})

	t.Run("should break ties by lower label index", func(t *testing.T) {
		probs := []float64{0.25, 0.25, 0.25, 0.25}
		preds := topKPredictions(probs, labels[:4], 4)

		require.Len(t, preds, 4)
		assert.Equal(t, "pizza", preds[0].Label)
		assert.Equal(t, "burger", preds[1].Label)
		assert.Equal(t, "salad", preds[2].Label)
		assert.Equal(t, "pasta", preds[3].Label)
	})

	t.Run("should be deterministic for identical logits", func(t *testing.T) {
		probs := softmax([]float32{0.3, 0.3, 1.7, 0.3, 1.7})
		first := topKPredictions(probs, labels, 5)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, topKPredictions(probs, labels, 5))
		}
	})

	t.Run("should label out-of-range indices as Unknown", func(t *testing.T) {
		probs := []float64{0.2, 0.8}
		preds := topKPredictions(probs, []string{"pizza"}, 2)

		require.Len(t, preds, 2)
		assert.Equal(t, "Unknown", preds[0].Label)
		assert.Equal(t, "pizza", preds[1].Label)
	})
}

func TestPreprocessImage(t *testing.T) {
	t.Run("should produce channel-first data at the target size", func(t *testing.T) {
		data := preprocessImage(solidImage(100, 80), 224)
		assert.Len(t, data, 3*224*224)
	})

	t.Run("should normalize pixels to [-1, 1]", func(t *testing.T) {
		data := preprocessImage(noiseImage(64, 64), 32)
		for _, v := range data {
			assert.GreaterOrEqual(t, v, float32(-1.0))
			assert.LessOrEqual(t, v, float32(1.001))
		}
	})

	t.Run("should map mid-gray near zero", func(t *testing.T) {
		data := preprocessImage(solidImage(64, 64), 32)
		for _, v := range data {
			assert.InDelta(t, 0.0, float64(v), 0.02)
		}
	})
}
