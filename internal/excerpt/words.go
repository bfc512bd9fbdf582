package excerpt

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode"
)

// Words builds excerpts from a word list.
type Words struct {
	rnd      *rand.Rand
	words    []string
	count    int
	capsPct  float64
	punctPct float64
	punctSet []rune
}

// DefaultPunctSet is the punctuation appended to words.
const DefaultPunctSet = ".,!?;:"

// NewWords returns a provider producing count words per excerpt.
func NewWords(words []string, count int, capsPct, punctPct float64) *Words {
	return NewWordsFrom(words, count, capsPct, punctPct, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWordsFrom is NewWords with an explicit random source.
func NewWordsFrom(words []string, count int, capsPct, punctPct float64, rnd *rand.Rand) *Words {
	return &Words{
		rnd:      rnd,
		words:    words,
		count:    count,
		capsPct:  capsPct,
		punctPct: punctPct,
		punctSet: []rune(DefaultPunctSet),
	}
}

// Next selects words uniformly and applies caps/punctuation rules.
// The same word never appears twice in a row when the list allows it.
func (w *Words) Next() string {
	if len(w.words) == 0 || w.count <= 0 {
		return ""
	}
	result := make([]string, 0, w.count)
	prev := -1
	for i := 0; i < w.count; i++ {
		idx := w.rnd.Intn(len(w.words))
		for len(w.words) > 1 && idx == prev {
			idx = w.rnd.Intn(len(w.words))
		}
		prev = idx
		word := applyCaps(w.rnd, w.words[idx], w.capsPct)
		word = applyPunct(w.rnd, word, w.punctPct, w.punctSet)
		result = append(result, word)
	}
	return strings.Join(result, " ")
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}

// LoadWords reads one word per line from path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.ContainsRune(line, ' ') {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
