package markov

import "fmt"

// Build constructs an order-n model from the corpus in a single linear pass.
//
// Start states are the windows that begin where a word began in the raw
// text, duplicates retained so that frequent word openings are sampled more
// often. If no window qualifies, every transition key serves as a start
// state instead. An order of at least len(corpus) yields an empty transition
// table; Build still succeeds, and generation reports ErrModelNotBuilt.
func Build(c *Corpus, order int) (*Model, error) {
	if order < 1 {
		return nil, fmt.Errorf("chain order must be positive, got %d", order)
	}

	m := &Model{
		Order:       order,
		Transitions: make(map[string][]rune),
	}

	text := c.Text
	for i := 0; i+order < len(text); i++ {
		state := string(text[i : i+order])
		m.Transitions[state] = append(m.Transitions[state], text[i+order])
	}

	for _, ws := range c.WordStarts {
		if ws+order < len(text) {
			m.StartStates = append(m.StartStates, string(text[ws:ws+order]))
		}
	}
	if len(m.StartStates) == 0 {
		m.StartStates = sortedKeys(m.Transitions)
	}

	m.finalize()
	return m, nil
}
