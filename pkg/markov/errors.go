package markov

import "errors"

var (
	// ErrCorpusNotFound is returned when the corpus path does not resolve to
	// a readable text file.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrEmptyCorpus is returned when normalization leaves no usable letters.
	ErrEmptyCorpus = errors.New("corpus has no usable letters")

	// ErrModelNotBuilt is returned by Generate when the model's transition
	// table is empty, typically because the chain order was at least as large
	// as the normalized corpus.
	ErrModelNotBuilt = errors.New("model not built")
)
