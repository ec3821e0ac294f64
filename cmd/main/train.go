package main

import (
	"fmt"

	"github.com/avolkov/lexipass/pkg/markov"
	"github.com/spf13/cobra"
)

var trainCorpus string

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the model from the corpus, replacing any cached model",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath := cfg.CorpusPath
		if trainCorpus != "" {
			corpusPath = trainCorpus
		}

		if err := ensureParentDir(cfg.ModelPath); err != nil {
			return err
		}
		store := markov.NewStore(cfg.ModelPath)
		store.SetLogger(logger)

		gen := markov.NewGenerator(store)
		gen.SetLogger(logger)

		model, err := gen.BuildOrLoad(corpusPath, cfg.ChainOrder, true)
		if err != nil {
			return err
		}

		stats := model.Stats()
		fmt.Fprintf(cmd.OutOrStdout(),
			"Model trained: order %d, %d states, %d transitions, %d start states\n",
			model.Order, stats.States, stats.Transitions, stats.StartStates)
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainCorpus, "corpus", "", "corpus path override")
	rootCmd.AddCommand(trainCmd)
}
