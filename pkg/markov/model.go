package markov

import "sort"

// Model is a character-level Markov chain of a fixed order. Transitions maps
// each length-Order state to the sequence of successor characters observed
// in the corpus, duplicates retained: the sequence is the frequency
// distribution, so a uniform draw over it reproduces corpus-proportional
// sampling. A Model is immutable once built and safe to share read-only
// across concurrent generation calls.
type Model struct {
	Order       int
	Transitions map[string][]rune
	StartStates []string

	// keys holds the transition keys in sorted order so that dead-end
	// recovery stays deterministic under a seeded random source.
	keys []string
}

// ModelStats summarizes the shape of a built model.
type ModelStats struct {
	States      int // unique states in the transition table
	Transitions int // total observed transitions, duplicates included
	StartStates int // generation seeds, duplicates included
}

// Stats returns counters describing the model.
func (m *Model) Stats() ModelStats {
	total := 0
	for _, succ := range m.Transitions {
		total += len(succ)
	}
	return ModelStats{
		States:      len(m.Transitions),
		Transitions: total,
		StartStates: len(m.StartStates),
	}
}

func (m *Model) finalize() {
	m.keys = sortedKeys(m.Transitions)
}

func sortedKeys(transitions map[string][]rune) []string {
	keys := make([]string, 0, len(transitions))
	for k := range transitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
