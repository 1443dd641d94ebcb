package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveLabelMap writes the class name → label index mapping as JSON.
// The mapping must use the same lexicographic ordering that assigned labels.
func SaveLabelMap(path string, labelMap map[string]int) error {
	data, err := json.Marshal(labelMap)
	if err != nil {
		return fmt.Errorf("marshal label map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write label map: %w", err)
	}
	return nil
}

// LoadLabelMap reads a label map written by SaveLabelMap.
func LoadLabelMap(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label map: %w", err)
	}
	var labelMap map[string]int
	if err := json.Unmarshal(data, &labelMap); err != nil {
		return nil, fmt.Errorf("parse label map: %w", err)
	}
	return labelMap, nil
}
