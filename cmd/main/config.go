package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Config holds every path and tunable the CLI needs. It lives in a JSON file
// that is created with defaults on first run.
type Config struct {
	DataDir        string  `json:"data_dir"`
	CorpusPath     string  `json:"corpus_path"`
	ModelPath      string  `json:"model_path"`
	ChainOrder     int     `json:"chain_order"`
	Policy         string  `json:"policy"` // "random_caps" or "symbol_insert"
	CapProbability float64 `json:"cap_probability"`
	SymbolCount    int     `json:"symbol_count"`
	VaultDBPath    string  `json:"vault_db_path"`
	SaltPath       string  `json:"salt_path"`
	LogLevel       string  `json:"log_level"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "./data",
		CorpusPath:     "./data/corpus.txt",
		ModelPath:      "./data/model.json",
		ChainOrder:     2,
		Policy:         "random_caps",
		CapProbability: 0.3,
		SymbolCount:    2,
		VaultDBPath:    "./data/vault.db",
		SaltPath:       "./data/key.salt",
		LogLevel:       "info",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The CLI can still run with in-memory defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
