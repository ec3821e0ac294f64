package markov

import (
	"reflect"
	"testing"
)

func mustCorpus(t *testing.T, raw string) *Corpus {
	t.Helper()
	c, err := NewCorpus(raw)
	if err != nil {
		t.Fatalf("NewCorpus(%q) error = %v", raw, err)
	}
	return c
}

func TestBuild(t *testing.T) {
	// "мама мыла раму" normalizes to "мамамылараму".
	m, err := Build(mustCorpus(t, "мама мыла раму"), 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// "ма" occurs at offsets 0 and 2, both followed by 'м'.
	if got, want := m.Transitions["ма"], []rune("мм"); !reflect.DeepEqual(got, want) {
		t.Errorf("Transitions[%q] = %q, want %q", "ма", string(got), string(want))
	}

	// Each word opening becomes a start state.
	if want := []string{"ма", "мы", "ра"}; !reflect.DeepEqual(m.StartStates, want) {
		t.Errorf("StartStates = %v, want %v", m.StartStates, want)
	}

	stats := m.Stats()
	// 12 runes, order 2: ten windows feed the table.
	if stats.Transitions != 10 {
		t.Errorf("Stats().Transitions = %d, want 10", stats.Transitions)
	}
	if stats.States != len(m.Transitions) {
		t.Errorf("Stats().States = %d, want %d", stats.States, len(m.Transitions))
	}
}

func TestBuildKeepsDuplicateSuccessors(t *testing.T) {
	m, err := Build(mustCorpus(t, "abcabcabd"), 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// "ab" is followed by 'c' twice and 'd' once; the duplicates are the
	// frequency distribution and must survive.
	if got, want := m.Transitions["ab"], []rune("ccd"); !reflect.DeepEqual(got, want) {
		t.Errorf("Transitions[%q] = %q, want %q", "ab", string(got), string(want))
	}
}

func TestBuildShortCorpus(t *testing.T) {
	testCases := []struct {
		name  string
		raw   string
		order int
	}{
		{name: "Order equals corpus length", raw: "abc", order: 3},
		{name: "Order exceeds corpus length", raw: "ab", order: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Build(mustCorpus(t, tc.raw), tc.order)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(m.Transitions) != 0 {
				t.Errorf("expected empty transition table, got %d states", len(m.Transitions))
			}
			if len(m.StartStates) != 0 {
				t.Errorf("expected no start states, got %v", m.StartStates)
			}
		})
	}
}

func TestBuildInvalidOrder(t *testing.T) {
	if _, err := Build(mustCorpus(t, "abcdef"), 0); err == nil {
		t.Error("Build() with order 0 succeeded, want error")
	}
}

func TestBuildMinimalCorpus(t *testing.T) {
	// order+1 letters is the smallest corpus that yields a usable model.
	m, err := Build(mustCorpus(t, "abc"), 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(m.Transitions) != 1 {
		t.Fatalf("expected exactly one state, got %d", len(m.Transitions))
	}
	if len(m.StartStates) == 0 {
		t.Error("StartStates empty for a non-empty transition table")
	}
}
