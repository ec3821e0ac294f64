package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/avolkov/lexipass/pkg/markov"
	"github.com/spf13/cobra"
)

var (
	genLength  int
	genCount   int
	genCorpus  string
	genRebuild bool
	genSeed    uint64
	genStore   string
	genUser    string
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate one or more pronounceable passwords",
	RunE: func(cmd *cobra.Command, args []string) error {
		if genLength < 1 {
			return fmt.Errorf("length must be at least 1, got %d", genLength)
		}
		if genCount < 1 {
			return fmt.Errorf("count must be at least 1, got %d", genCount)
		}

		policy, err := policyFromName(cfg.Policy)
		if err != nil {
			return err
		}

		opts := []markov.Option{
			markov.WithPolicy(policy),
			markov.WithCapProb(cfg.CapProbability),
			markov.WithSymbolCount(cfg.SymbolCount),
		}
		if cmd.Flags().Changed("seed") {
			opts = append(opts, markov.WithRand(rand.New(rand.NewPCG(genSeed, genSeed))))
		}

		if err := ensureParentDir(cfg.ModelPath); err != nil {
			return err
		}
		store := markov.NewStore(cfg.ModelPath)
		store.SetLogger(logger)

		gen := markov.NewGenerator(store, opts...)
		gen.SetLogger(logger)

		corpusPath := cfg.CorpusPath
		if genCorpus != "" {
			corpusPath = genCorpus
		}

		model, err := gen.BuildOrLoad(corpusPath, cfg.ChainOrder, genRebuild)
		if err != nil {
			return err
		}

		passwords := make([]string, 0, genCount)
		for i := 0; i < genCount; i++ {
			pwd, err := gen.Generate(model, genLength)
			if err != nil {
				return err
			}
			passwords = append(passwords, pwd)
			fmt.Fprintln(cmd.OutOrStdout(), pwd)
		}

		// Optionally wire the first generated password into the vault.
		if genStore != "" {
			ctx := cmd.Context()
			v, cleanup, err := openVault()
			if err != nil {
				return err
			}
			defer cleanup()
			if err := v.Store(ctx, genStore, genUser, passwords[0]); err != nil {
				return err
			}
			logger.Info("generated credential stored", "service", genStore)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVarP(&genLength, "length", "l", 12, "password length")
	generateCmd.Flags().IntVarP(&genCount, "count", "c", 1, "how many passwords to generate")
	generateCmd.Flags().StringVar(&genCorpus, "corpus", "", "corpus path override")
	generateCmd.Flags().BoolVar(&genRebuild, "rebuild", false, "ignore the cached model and retrain")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "seed the random source for reproducible output")
	generateCmd.Flags().StringVar(&genStore, "store", "", "store the first generated password in the vault under this service")
	generateCmd.Flags().StringVar(&genUser, "username", "", "username to store alongside --store")
	rootCmd.AddCommand(generateCmd)
}
