// Package excerpt supplies the text a session asks the player to type.
package excerpt

import (
	_ "embed"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Provider returns the excerpt for the next session.
type Provider interface {
	Next() string
}

//go:embed excerpts.txt
var embeddedExcerpts string

// Quotes draws from a fixed list of excerpts.
type Quotes struct {
	rnd      *rand.Rand
	excerpts []string
	last     int
}

// NewQuotes returns a provider over the built-in excerpts.
func NewQuotes() *Quotes {
	return NewQuotesFrom(splitLines(embeddedExcerpts), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuotesFrom returns a provider over excerpts using rnd.
func NewQuotesFrom(excerpts []string, rnd *rand.Rand) *Quotes {
	return &Quotes{rnd: rnd, excerpts: excerpts, last: -1}
}

// Next returns a random excerpt, never the same one twice in a row.
func (q *Quotes) Next() string {
	switch len(q.excerpts) {
	case 0:
		return ""
	case 1:
		return q.excerpts[0]
	}
	i := q.rnd.Intn(len(q.excerpts))
	for i == q.last {
		i = q.rnd.Intn(len(q.excerpts))
	}
	q.last = i
	return q.excerpts[i]
}

// BuiltinWords returns the distinct lowercase words of the built-in excerpts.
func BuiltinWords() []string {
	seen := map[string]struct{}{}
	var words []string
	for _, field := range strings.Fields(embeddedExcerpts) {
		word := strings.ToLower(strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r)
		}))
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
