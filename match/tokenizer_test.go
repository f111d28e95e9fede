package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTokenizer(t *testing.T) {
	for selector, want := range map[string]string{
		"":           TokenizerWhitespace,
		"whitespace": TokenizerWhitespace,
		"words":      TokenizerWords,
	} {
		tok, err := ResolveTokenizer(selector)
		require.NoError(t, err, selector)
		assert.Equal(t, want, tok.Name())
	}

	_, err := ResolveTokenizer("regex")
	assert.Error(t, err)
}

func TestWhitespaceTokenizer(t *testing.T) {
	tok, err := ResolveTokenizer(TokenizerWhitespace)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"bagaimana", "cuaca", "di", "jakarta"},
		tok.Tokenize("  Bagaimana   cuaca di Jakarta?  "))

	assert.Empty(t, tok.Tokenize("?! ... ---"))
	assert.Empty(t, tok.Tokenize(""))
}

func TestWordTokenizerSplitsPunctuation(t *testing.T) {
	tok, err := ResolveTokenizer(TokenizerWords)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"halo", "apa", "kabar"},
		tok.Tokenize("Halo, apa kabar?"))

	// Numbers survive tokenization
	assert.Equal(t,
		[]string{"pulsa", "20000"},
		tok.Tokenize("pulsa 20000!"))
}
