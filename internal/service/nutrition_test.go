package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNutritionService_Estimate(t *testing.T) {
	service, err := NewNutritionService("")
	require.NoError(t, err)

	t.Run("should match known dishes", func(t *testing.T) {
		record := service.Estimate("pizza")
		assert.Equal(t, "285", record.Calories)
		assert.Equal(t, "12g", record.Protein)
		assert.Equal(t, "36g", record.Carbs)
		assert.Equal(t, "10g", record.Fat)
	})

	t.Run("should match case-insensitively", func(t *testing.T) {
		assert.Equal(t, "540", service.Estimate("BURGER").Calories)
		assert.Equal(t, "540", service.Estimate("Cheese Burger").Calories)
	})

	t.Run("should match by substring", func(t *testing.T) {
		assert.Equal(t, "200", service.Estimate("salmon sushi roll").Calories)
	})

	t.Run("should return approximate default for unknown dish", func(t *testing.T) {
		record := service.Estimate("bouillabaisse")
		assert.True(t, strings.HasPrefix(record.Calories, "~"))
		assert.True(t, strings.HasPrefix(record.Protein, "~"))
		assert.True(t, strings.HasPrefix(record.Carbs, "~"))
		assert.True(t, strings.HasPrefix(record.Fat, "~"))
		assert.True(t, record.Approximate())
	})

	t.Run("should prefer the longest matching key", func(t *testing.T) {
		// "pasta salad" contains both "pasta" and "salad"; the longer key wins
		record := service.Estimate("pasta salad")
		assert.Equal(t, "350", record.Calories)
	})

	t.Run("should be deterministic for repeated lookups", func(t *testing.T) {
		first := service.Estimate("pasta salad")
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, service.Estimate("pasta salad"))
		}
	})
}

func TestNutritionService_YAMLOverride(t *testing.T) {
	t.Run("should load a table from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nutrition.yaml")
		content := `ramen:
  calories: "450"
  protein: "20g"
  carbs: "65g"
  fat: "14g"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		service, err := NewNutritionService(path)
		require.NoError(t, err)

		record := service.Estimate("tonkotsu ramen")
		assert.Equal(t, "450", record.Calories)
		assert.Equal(t, "20g", record.Protein)

		// The override replaces the seed table entirely
		assert.Equal(t, "~300", service.Estimate("pizza").Calories)
	})

	t.Run("should reject a missing file", func(t *testing.T) {
		_, err := NewNutritionService("/nonexistent/nutrition.yaml")
		assert.Error(t, err)
	})

	t.Run("should reject an empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

		_, err := NewNutritionService(path)
		assert.Error(t, err)
	})
}
