package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectAnswer(t *testing.T) {
	assert.Equal(t, "satu", selectAnswer([]string{"satu"}))

	variants := []string{"satu", "dua", "tiga"}
	for range 20 {
		assert.Contains(t, variants, selectAnswer(variants))
	}
}

func TestPersonalize(t *testing.T) {
	assert.Equal(t, "Cuaca di jakarta cerah",
		personalize("Cuaca di {city} cerah", map[string]string{"city": "jakarta"}))

	// Only the first occurrence is replaced
	assert.Equal(t, "Halo budi, {name}",
		personalize("Halo {name}, {name}", map[string]string{"name": "budi"}))

	// Unmatched placeholders stay verbatim
	assert.Equal(t, "Cuaca di {city} cerah",
		personalize("Cuaca di {city} cerah", map[string]string{"province": "jabar"}))

	assert.Equal(t, "tanpa placeholder", personalize("tanpa placeholder", nil))
}
