package dialogue

import "github.com/wicaksana/tanya/kb"

// recognizeEntities matches tokens against each entity's value set by exact,
// case-insensitive comparison. Iteration is entities-outer, tokens-inner, so
// for a given entity the last matching token in the utterance wins.
func recognizeEntities(tokens []string, entities []kb.Entity) map[string]string {
	var found map[string]string
	for i := range entities {
		for _, tok := range tokens {
			if entities[i].Matches(tok) {
				if found == nil {
					found = make(map[string]string)
				}
				found[entities[i].Name] = tok
			}
		}
	}
	return found
}
