package markov

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"unicode"
)

// Policy names a postprocessing variant applied to a sampled base string.
// The two variants are mutually exclusive and selected once at construction.
type Policy int

const (
	// PolicyRandomCaps upper-cases each letter independently with the
	// generator's capitalization probability.
	PolicyRandomCaps Policy = iota
	// PolicySymbolInsert inserts a fixed count of symbol/digit characters at
	// random interior positions and capitalizes only the first letter.
	PolicySymbolInsert
)

// symbolAlphabet is the pool PolicySymbolInsert draws from.
const symbolAlphabet = "!@#$%^&*0123456789"

const (
	defaultCapProb     = 0.3
	defaultSymbolCount = 2
)

// Generator samples password candidates from built models. The random
// source is explicit so that a fixed seed pins the output; nothing in the
// Generator reads process-global random state.
type Generator struct {
	store   *Store
	rng     *rand.Rand
	policy  Policy
	capProb float64
	symbols int
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source used for start-state selection, transition
// sampling, and postprocessing. Pass a seeded source for reproducible output.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithPolicy selects the postprocessing policy.
// Default: PolicyRandomCaps.
func WithPolicy(p Policy) Option {
	return func(g *Generator) { g.policy = p }
}

// WithCapProb sets the per-letter capitalization probability used by
// PolicyRandomCaps. Default: 0.3.
func WithCapProb(p float64) Option {
	return func(g *Generator) { g.capProb = p }
}

// WithSymbolCount sets how many symbol/digit characters PolicySymbolInsert
// places into the output. Default: 2.
func WithSymbolCount(n int) Option {
	return func(g *Generator) { g.symbols = n }
}

// NewGenerator creates a Generator backed by the given model store. The
// store may be nil, in which case BuildOrLoad always rebuilds and never
// persists.
func NewGenerator(store *Store, opts ...Option) *Generator {
	g := &Generator{
		store:   store,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		policy:  PolicyRandomCaps,
		capProb: defaultCapProb,
		symbols: defaultSymbolCount,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// BuildOrLoad returns a usable model for the given corpus and chain order.
// Unless forceRebuild is set, a persisted model with a matching order is
// preferred. On a cache miss the corpus is loaded, normalized, and built
// into a fresh model, which is then persisted; a failed save is logged but
// does not fail the call.
func (g *Generator) BuildOrLoad(corpusPath string, order int, forceRebuild bool) (*Model, error) {
	if !forceRebuild && g.store != nil {
		if m, ok := g.store.Load(order); ok {
			g.logger.Info("model loaded from cache",
				"path", g.store.Path(), "order", order, "states", len(m.Transitions))
			return m, nil
		}
	}

	corpus, err := LoadCorpus(corpusPath)
	if err != nil {
		return nil, err
	}
	m, err := Build(corpus, order)
	if err != nil {
		return nil, err
	}
	g.logger.Info("model built",
		"corpus", corpusPath, "order", order, "states", len(m.Transitions))

	if g.store != nil {
		if err := g.store.Save(m); err != nil {
			g.logger.Warn("failed to persist model", "error", err)
		}
	}
	return m, nil
}

// Generate samples a password of exactly length runes from the model.
// It returns ErrModelNotBuilt if the model's transition table is empty.
//
// The walk starts from a uniformly drawn start state and extends one
// character at a time using the last Order runes as the lookup key. A dead
// end (a suffix absent from the table, possible near the corpus tail) is
// recovered by drawing a fresh random key and sampling from its successors,
// so the loop always makes length progress and terminates.
func (g *Generator) Generate(m *Model, length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}
	if m == nil || len(m.Transitions) == 0 {
		return "", ErrModelNotBuilt
	}

	base := []rune(m.StartStates[g.rng.IntN(len(m.StartStates))])
	for len(base) < length {
		state := string(base[len(base)-m.Order:])
		succ, ok := m.Transitions[state]
		if !ok {
			succ = m.Transitions[m.keys[g.rng.IntN(len(m.keys))]]
		}
		base = append(base, succ[g.rng.IntN(len(succ))])
	}
	base = base[:length]

	switch g.policy {
	case PolicySymbolInsert:
		return g.insertSymbols(base), nil
	default:
		return g.randomCapitalize(base), nil
	}
}

// randomCapitalize upper-cases each letter independently with probability
// capProb, leaving other characters untouched.
func (g *Generator) randomCapitalize(base []rune) string {
	for i, r := range base {
		if unicode.IsLetter(r) && g.rng.Float64() < g.capProb {
			base[i] = unicode.ToUpper(r)
		}
	}
	return string(base)
}

// insertSymbols trims the base to make room, inserts symbol/digit characters
// at random interior positions (never position 0), and capitalizes the first
// letter. The result keeps the original length.
func (g *Generator) insertSymbols(base []rune) string {
	count := g.symbols
	if count >= len(base) {
		count = len(base) - 1
	}
	if count < 0 {
		count = 0
	}
	base = base[:len(base)-count]

	symbols := []rune(symbolAlphabet)
	for i := 0; i < count; i++ {
		ch := symbols[g.rng.IntN(len(symbols))]
		pos := 1
		if len(base) > 1 {
			pos += g.rng.IntN(len(base) - 1)
		}
		base = slices.Insert(base, pos, ch)
	}

	if unicode.IsLetter(base[0]) {
		base[0] = unicode.ToUpper(base[0])
	}
	return string(base)
}
