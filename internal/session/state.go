package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"StockForecast/internal/model"
)

// Settings is the persisted form state of a dashboard session. Reports are
// never persisted.
type Settings struct {
	SalesFile string      `json:"sales_file,omitempty"`
	Scope     model.Scope `json:"scope"`
	ProductID string      `json:"product_id,omitempty"`
	Month     model.Month `json:"month,omitempty"`
	Year      int         `json:"year,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// LoadSettings reads settings from a JSON file. Returns zero settings if the file doesn't exist.
func LoadSettings(filePath string) (*Settings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings writes settings to a JSON file.
func SaveSettings(filePath string, s *Settings) error {
	s.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
