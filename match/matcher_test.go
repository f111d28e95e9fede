package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByDissimilarity(t *testing.T) {
	m := NewLevenshteinMatcher()

	cands := []Candidate{
		{Key: "far", Texts: []string{"completely unrelated text"}},
		{Key: "exact", Texts: []string{"bagaimana cuaca di jakarta"}},
		{Key: "close", Texts: []string{"bagaimana cuaca di jakarta hari ini"}},
	}

	results := m.Rank("bagaimana cuaca di jakarta", cands)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Key)
	assert.Equal(t, 0.0, results[0].Score)
	assert.Equal(t, "close", results[1].Key)
	assert.Less(t, results[1].Score, results[2].Score)
}

func TestRankIsCaseInsensitive(t *testing.T) {
	m := NewLevenshteinMatcher()
	results := m.Rank("HALO", []Candidate{{Key: "greet", Texts: []string{"halo"}}})
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestRankPicksBestTextVariant(t *testing.T) {
	m := NewLevenshteinMatcher()
	results := m.Rank("harga pulsa", []Candidate{
		{Key: "price", Texts: []string{"sesuatu yang lain sama sekali", "harga pulsa"}},
	})
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestRankEmptyInputs(t *testing.T) {
	m := NewLevenshteinMatcher()
	assert.Nil(t, m.Rank("", []Candidate{{Key: "a", Texts: []string{"x"}}}))
	assert.Nil(t, m.Rank("query", nil))
	assert.Empty(t, m.Rank("query", []Candidate{{Key: "empty"}}))
}

func TestDistanceBounds(t *testing.T) {
	assert.Equal(t, 0.0, Distance("sama", "sama"))
	assert.Equal(t, 0.0, Distance("", ""))
	assert.Equal(t, 1.0, Distance("abc", ""))

	// One edit over five runes
	assert.InDelta(t, 0.2, Distance("cuaca", "cuacb"), 1e-9)

	d := Distance("pendek", "kalimat yang jauh lebih panjang dari itu")
	assert.Greater(t, d, 0.5)
	assert.LessOrEqual(t, d, 1.0)
}

func TestSuggest(t *testing.T) {
	pool := []string{
		"bagaimana cuaca di jakarta",
		"berapa harga pulsa",
		"jam berapa sekarang",
	}

	got := Suggest("cuaca", pool, 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "bagaimana cuaca di jakarta", got[0])
	assert.LessOrEqual(t, len(got), 2)
}

func TestSuggestNoMatches(t *testing.T) {
	assert.Empty(t, Suggest("zzzzqqq", []string{"halo", "pagi"}, 3))
	assert.Empty(t, Suggest("", []string{"halo"}, 3))
	assert.Empty(t, Suggest("halo", []string{"halo"}, 0))
}
