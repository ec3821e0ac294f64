package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/lexipass/pkg/markov"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     *Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lexipass",
	Short: "Pronounceable password generator with an encrypted vault",
	Long: `Lexipass builds a character-level Markov model from a text corpus and
samples word-like password candidates from it. Generated credentials can be
stored in an encrypted SQLite vault protected by a master password.

Quick start:
  lexipass train --corpus book.txt     Build the model from a corpus
  lexipass generate -l 14 -c 5         Generate five 14-character passwords
  lexipass vault add github octocat    Store a credential`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		var logLevel slog.Level
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
		// Logs go to stderr so generated passwords on stdout stay clean.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./config.json", "path to the config file")
}

// policyFromName maps the config's policy name onto the engine enum.
func policyFromName(name string) (markov.Policy, error) {
	switch strings.ToLower(name) {
	case "", "random_caps":
		return markov.PolicyRandomCaps, nil
	case "symbol_insert":
		return markov.PolicySymbolInsert, nil
	default:
		return 0, fmt.Errorf("unknown postprocessing policy %q", name)
	}
}

// ensureParentDir creates the directory a file path lives in.
func ensureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
