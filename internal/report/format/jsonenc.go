package format

import (
	"encoding/json"
	"fmt"

	"MarketPulse/internal/domain/models"
)

func encodeJSON(r *models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report json: %w", err)
	}
	return data, nil
}

func decodeJSONSections(data []byte) ([]string, error) {
	var doc struct {
		Sections []struct {
			Name string `json:"name"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode report json: %w", err)
	}
	names := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		names[i] = s.Name
	}
	return names, nil
}
