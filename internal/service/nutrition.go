package service

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// seedNutritionTable holds per-serving estimates for common dishes. It stands
// in for a live nutrition API and can be replaced wholesale via a YAML file.
var seedNutritionTable = map[string]types.NutritionRecord{
	"pizza":  {Calories: "285", Protein: "12g", Carbs: "36g", Fat: "10g"},
	"burger": {Calories: "540", Protein: "25g", Carbs: "40g", Fat: "27g"},
	"salad":  {Calories: "150", Protein: "5g", Carbs: "15g", Fat: "8g"},
	"pasta":  {Calories: "350", Protein: "13g", Carbs: "60g", Fat: "7g"},
	"sushi":  {Calories: "200", Protein: "9g", Carbs: "30g", Fat: "6g"},
}

// defaultNutrition is returned when no table key matches. All values are
// marked approximate.
var defaultNutrition = types.NutritionRecord{
	Calories: "~300", Protein: "~15g", Carbs: "~40g", Fat: "~12g",
}

// NutritionService maps a dish label to an approximate nutrition record via
// case-insensitive substring match. Lookup is a pure function of the table:
// the longest matching key wins, with equal-length ties broken by
// lexicographic key order, so a label containing several keys (for example
// "pasta salad") always resolves the same way.
type NutritionService struct {
	table map[string]types.NutritionRecord
	keys  []string // sorted longest-first, then lexicographically
}

// NewNutritionService creates a NutritionService from the built-in seed
// table, optionally overridden by a YAML file mapping lowercase dish keywords
// to nutrition records.
func NewNutritionService(tablePath string) (*NutritionService, error) {
	table := seedNutritionTable
	if tablePath != "" {
		loaded, err := loadNutritionTable(tablePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load nutrition table: %w", err)
		}
		table = loaded
	}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &NutritionService{table: table, keys: keys}, nil
}

// Estimate returns the nutrition record for the first table key contained in
// the dish label. It never fails; unmatched labels get the approximate
// default record.
func (s *NutritionService) Estimate(dishLabel string) types.NutritionRecord {
	needle := strings.ToLower(dishLabel)
	for _, key := range s.keys {
		if strings.Contains(needle, key) {
			return s.table[key]
		}
	}
	return defaultNutrition
}

func loadNutritionTable(path string) (map[string]types.NutritionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]struct {
		Calories string `yaml:"calories"`
		Protein  string `yaml:"protein"`
		Carbs    string `yaml:"carbs"`
		Fat      string `yaml:"fat"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("nutrition table %s is empty", path)
	}

	table := make(map[string]types.NutritionRecord, len(raw))
	for key, rec := range raw {
		table[strings.ToLower(key)] = types.NutritionRecord{
			Calories: rec.Calories,
			Protein:  rec.Protein,
			Carbs:    rec.Carbs,
			Fat:      rec.Fat,
		}
	}
	return table, nil
}
