package markov

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Strips punctuation digits and whitespace",
			input: "Hello, world! 123",
			want:  "helloworld",
		},
		{
			name:  "Keeps Cyrillic including yo",
			input: "Ёжик в тумане.",
			want:  "ёжиквтумане",
		},
		{
			name:  "Mixed scripts",
			input: "пароль: Pa$$w0rd",
			want:  "парольpawrd",
		},
		{
			name:  "Nothing usable",
			input: "42 + 17 = 59 :-)",
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
			// Idempotence: normalizing the result changes nothing.
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNewCorpus(t *testing.T) {
	c, err := NewCorpus("мама мыла раму")
	if err != nil {
		t.Fatalf("NewCorpus() error = %v", err)
	}
	if got := string(c.Text); got != "мамамылараму" {
		t.Errorf("normalized text = %q, want %q", got, "мамамылараму")
	}
	if want := []int{0, 4, 8}; !reflect.DeepEqual(c.WordStarts, want) {
		t.Errorf("WordStarts = %v, want %v", c.WordStarts, want)
	}
}

func TestNewCorpusEmpty(t *testing.T) {
	_, err := NewCorpus("12345 !@# \n\t")
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("NewCorpus() error = %v, want ErrEmptyCorpus", err)
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte("one fish, two fish"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if got := string(c.Text); got != "onefishtwofish" {
		t.Errorf("normalized text = %q, want %q", got, "onefishtwofish")
	}

	if _, err := LoadCorpus(filepath.Join(dir, "missing.txt")); !errors.Is(err, ErrCorpusNotFound) {
		t.Errorf("LoadCorpus(missing) error = %v, want ErrCorpusNotFound", err)
	}

	emptyPath := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(emptyPath, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCorpus(emptyPath); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("LoadCorpus(no letters) error = %v, want ErrEmptyCorpus", err)
	}
}

func TestNormalizerCache(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{"Alpha!", "Beta 2", "Alpha!", "гамма-3"}
	for _, in := range inputs {
		if got, want := n.Normalize(in), Normalize(in); got != want {
			t.Errorf("Normalizer.Normalize(%q) = %q, want %q", in, got, want)
		}
	}

	// Push past the cache bound and make sure results stay correct.
	for i := 0; i < 3*normCacheLimit; i++ {
		in := string(rune('a'+i%26)) + " stuffing"
		if got, want := n.Normalize(in), Normalize(in); got != want {
			t.Errorf("after eviction, Normalize(%q) = %q, want %q", in, got, want)
		}
	}
	if len(n.cache) > normCacheLimit {
		t.Errorf("cache grew to %d entries, limit is %d", len(n.cache), normCacheLimit)
	}
}
