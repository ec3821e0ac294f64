package markov

import (
	"fmt"
	"os"
	"unicode"
)

// Corpus holds normalized training text together with the positions where
// words began in the raw input. Normalization strips everything that is not
// a letter, so word boundaries have to be captured before stripping or they
// are lost; WordStarts carries them through as indices into Text.
type Corpus struct {
	Text       []rune
	WordStarts []int
}

// isModelLetter reports whether r belongs to the model alphabet:
// Latin a-z and Cyrillic а-я including ё, in either case.
func isModelLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я':
		return true
	case r == 'ё' || r == 'Ё':
		return true
	}
	return false
}

// Normalize strips every character outside the Latin/Cyrillic letter set and
// lowercases the remainder. It is pure and idempotent: normalizing twice
// equals normalizing once.
func Normalize(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		if isModelLetter(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// NewCorpus normalizes raw text and records word-boundary positions.
// It returns ErrEmptyCorpus if nothing survives normalization.
func NewCorpus(raw string) (*Corpus, error) {
	c := &Corpus{}
	inWord := false
	for _, r := range raw {
		if isModelLetter(r) {
			if !inWord {
				c.WordStarts = append(c.WordStarts, len(c.Text))
				inWord = true
			}
			c.Text = append(c.Text, unicode.ToLower(r))
		} else {
			inWord = false
		}
	}
	if len(c.Text) == 0 {
		return nil, ErrEmptyCorpus
	}
	return c, nil
}

// LoadCorpus reads a UTF-8 text file and normalizes it into a Corpus.
func LoadCorpus(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorpusNotFound, path, err)
	}
	c, err := NewCorpus(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// normCacheLimit bounds the Normalizer memo to a handful of recent inputs.
const normCacheLimit = 8

// Normalizer memoizes Normalize results for recently seen inputs. The cache
// is purely an optimization for callers that re-normalize the same corpus
// text repeatedly; the plain Normalize function is equivalent.
// A Normalizer is not safe for concurrent use.
type Normalizer struct {
	cache map[string]string
	order []string
}

// NewNormalizer returns a Normalizer with an empty cache.
func NewNormalizer() *Normalizer {
	return &Normalizer{cache: make(map[string]string, normCacheLimit)}
}

// Normalize behaves like the package-level Normalize, caching the result.
func (n *Normalizer) Normalize(raw string) string {
	if cached, ok := n.cache[raw]; ok {
		return cached
	}
	clean := Normalize(raw)
	if len(n.order) >= normCacheLimit {
		delete(n.cache, n.order[0])
		n.order = n.order[1:]
	}
	n.cache[raw] = clean
	n.order = append(n.order, raw)
	return clean
}
