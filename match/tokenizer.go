package match

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/wicaksana/tanya/errors"
)

// Tokenizer splits an utterance into lowercase tokens. The strategy is
// resolved once at knowledge-base build time, never per request.
type Tokenizer interface {
	Name() string
	Tokenize(s string) []string
}

// Tokenizer strategy names accepted by the knowledge-base settings.
const (
	TokenizerWhitespace = "whitespace"
	TokenizerWords      = "words"
)

// ResolveTokenizer maps a settings selector to a concrete strategy.
// An empty selector gets the whitespace strategy; anything unknown is an error.
func ResolveTokenizer(name string) (Tokenizer, error) {
	switch name {
	case "", TokenizerWhitespace:
		return whitespaceTokenizer{}, nil
	case TokenizerWords:
		return wordTokenizer{}, nil
	default:
		return nil, errors.Newf("unknown tokenizer %q (want %q or %q)", name, TokenizerWhitespace, TokenizerWords)
	}
}

type whitespaceTokenizer struct{}

func (whitespaceTokenizer) Name() string { return TokenizerWhitespace }

func (whitespaceTokenizer) Tokenize(s string) []string {
	var tokens []string
	for _, f := range strings.Fields(s) {
		if tok := normalizeToken(f); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// wordTokenizer segments on Unicode word boundaries (UAX #29), which splits
// punctuation off tokens the whitespace strategy would keep glued on.
type wordTokenizer struct{}

func (wordTokenizer) Name() string { return TokenizerWords }

func (wordTokenizer) Tokenize(s string) []string {
	var tokens []string
	iter := words.FromString(s)
	for iter.Next() {
		if tok := normalizeToken(iter.Value()); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// normalizeToken lowercases and trims punctuation; tokens without a single
// letter or digit are dropped.
func normalizeToken(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if s == "" {
		return ""
	}
	return strings.ToLower(s)
}
