package dialogue

import (
	"math/rand"
	"strings"
)

// selectAnswer picks one variant uniformly at random when an item carries
// several, else returns the sole entry.
func selectAnswer(answers []string) string {
	if len(answers) == 1 {
		return answers[0]
	}
	return answers[rand.Intn(len(answers))]
}

// personalize replaces the first literal occurrence of each recognized
// entity's {name} placeholder with the matched token. Placeholders without a
// recognized entity stay verbatim.
func personalize(template string, entities map[string]string) string {
	out := template
	for name, value := range entities {
		out = strings.Replace(out, "{"+name+"}", value, 1)
	}
	return out
}
