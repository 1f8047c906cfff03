package rules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coinscan/backend/internal/scoring"
)

// File is the on-disk shape of the scoring rule configuration.
type File struct {
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// Load reads a YAML rules file and returns the RuleTable plus raw bytes.
// Unknown fields fail immediately so typos never silently become defaults.
// A load failure is a startup fault; the scoring engine itself never reads
// files or fails per call.
func Load(path string) (scoring.RuleTable, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.RuleTable{}, nil, fmt.Errorf("read rules file: %w", err)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return scoring.RuleTable{}, data, fmt.Errorf("decode rules file: %w", err)
	}

	table, err := FromFile(file)
	if err != nil {
		return scoring.RuleTable{}, data, err
	}

	return table, data, nil
}

// FromFile validates the raw file contents and builds a RuleTable.
func FromFile(file File) (scoring.RuleTable, error) {
	if len(file.Weights) == 0 {
		return scoring.DefaultRuleTable(), nil
	}

	table := scoring.RuleTable{Weights: make(map[scoring.Category]float64, len(file.Weights))}
	for name, weight := range file.Weights {
		category, ok := knownCategory(name)
		if !ok {
			return scoring.RuleTable{}, fmt.Errorf("unknown scoring category %q", name)
		}
		if weight < 0 {
			return scoring.RuleTable{}, fmt.Errorf("weight for %q must be non-negative, got %v", name, weight)
		}
		table.Weights[category] = weight
	}

	return table, nil
}

// Warn returns non-fatal advisories about a loaded table.
func Warn(table scoring.RuleTable) []string {
	var warnings []string

	total := 0.0
	for _, c := range scoring.Categories {
		total += table.Weight(c)
	}
	if total == 0 {
		warnings = append(warnings, "all weights are zero; ensemble falls back to unweighted divisor 1.0")
	} else if total < 0.99 || total > 1.01 {
		warnings = append(warnings, fmt.Sprintf("weights sum to %.2f, not 1.0; grades will still be normalized", total))
	}

	return warnings
}

// Hash generates a SHA-256 hash of the table via canonical JSON, for
// audit logs and reload change detection.
func Hash(table scoring.RuleTable) (string, error) {
	// Marshal a sorted, fixed-order projection so the hash is reproducible.
	ordered := make([]float64, len(scoring.Categories))
	for i, c := range scoring.Categories {
		ordered[i] = table.Weight(c)
	}

	jsonBytes, err := json.Marshal(ordered)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

func knownCategory(name string) (scoring.Category, bool) {
	for _, c := range scoring.Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
