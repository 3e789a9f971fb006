// Package mining extracts weighted keyword profiles from reader
// comments using TF-IDF and TextRank, filtered through a lexical
// classifier.
package mining

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	unicodetokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Token is one comment term: Term is the folded form used for
// counting, Raw preserves the casing seen in the text.
type Token struct {
	Raw  string
	Term string
}

// Analyzer tokenizes comment text. It wraps the bleve unicode
// segmenter with English stopword removal plus any caller-supplied
// stopwords.
type Analyzer struct {
	tokenizer analysis.Tokenizer
	stopwords analysis.TokenMap
}

// NewAnalyzer creates an analyzer. extraStopwords are merged into the
// built-in English stopword set.
func NewAnalyzer(extraStopwords []string) (*Analyzer, error) {
	tm := analysis.NewTokenMap()
	if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, fmt.Errorf("load stopwords: %w", err)
	}
	for _, w := range extraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			tm.AddToken(w)
		}
	}
	return &Analyzer{
		tokenizer: unicodetokenizer.NewUnicodeTokenizer(),
		stopwords: tm,
	}, nil
}

// Tokenize splits text into filtered tokens. Stopwords, single-rune
// terms and anything carrying a digit are dropped.
func (a *Analyzer) Tokenize(text string) []Token {
	stream := a.tokenizer.Tokenize([]byte(text))

	var tokens []Token
	for _, tok := range stream {
		if tok.Type == analysis.Numeric {
			continue
		}
		raw := string(tok.Term)
		term := strings.ToLower(raw)
		if utf8.RuneCountInString(term) < 2 {
			continue
		}
		if strings.ContainsFunc(term, unicode.IsDigit) {
			continue
		}
		if _, isStop := a.stopwords[term]; isStop {
			continue
		}
		tokens = append(tokens, Token{Raw: raw, Term: term})
	}
	return tokens
}

// Terms returns just the folded terms of a token slice.
func Terms(tokens []Token) []string {
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}

// Capitalized reports, per term, whether every occurrence in the
// token slice was seen with an upper-case initial. Terms that ever
// appear lower-cased are ordinary words.
func Capitalized(tokens []Token) map[string]bool {
	caps := make(map[string]bool)
	for _, tok := range tokens {
		r, _ := utf8.DecodeRuneInString(tok.Raw)
		isUpper := unicode.IsUpper(r)
		if seen, ok := caps[tok.Term]; ok {
			caps[tok.Term] = seen && isUpper
		} else {
			caps[tok.Term] = isUpper
		}
	}
	return caps
}

// LoadStopwordsFile reads a newline-delimited stopword list.
// Empty lines and # comments are skipped.
func LoadStopwordsFile(path string) ([]string, error) {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
