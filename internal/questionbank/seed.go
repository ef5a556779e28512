package questionbank

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedData []byte

// LoadSeed parses the embedded course dataset. Used whenever no Postgres
// source is configured.
func LoadSeed() (*Store, error) {
	var weeks map[string][]Question
	if err := json.Unmarshal(seedData, &weeks); err != nil {
		return nil, fmt.Errorf("parse seed dataset: %w", err)
	}
	return New(weeks), nil
}
