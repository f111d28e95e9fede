package match

import (
	"github.com/abadojack/whatlanggo"
)

// isoLangs maps the ISO 639-1 tags a knowledge base may carry to the
// detector's language identifiers. Tags outside this table are still valid
// knowledge-base languages; they are just never auto-detected.
var isoLangs = map[string]whatlanggo.Lang{
	"ar": whatlanggo.Arb,
	"de": whatlanggo.Deu,
	"en": whatlanggo.Eng,
	"es": whatlanggo.Spa,
	"fr": whatlanggo.Fra,
	"hi": whatlanggo.Hin,
	"id": whatlanggo.Ind,
	"it": whatlanggo.Ita,
	"ja": whatlanggo.Jpn,
	"jv": whatlanggo.Jav,
	"ko": whatlanggo.Kor,
	"nl": whatlanggo.Nld,
	"pt": whatlanggo.Por,
	"ru": whatlanggo.Rus,
	"th": whatlanggo.Tha,
	"tr": whatlanggo.Tur,
	"vi": whatlanggo.Vie,
	"zh": whatlanggo.Cmn,
}

// Detector labels utterances with one of the knowledge base's language tags.
// Detection is pure: no state is mutated by Detect.
type Detector struct {
	defaultLang string
	auto        bool
	whitelist   map[whatlanggo.Lang]bool
	toTag       map[whatlanggo.Lang]string
}

// NewDetector builds a detector restricted to the given knowledge-base
// language tags. With auto=false, Detect always returns defaultLang without
// consulting the statistical detector.
func NewDetector(defaultLang string, languages []string, auto bool) *Detector {
	d := &Detector{
		defaultLang: defaultLang,
		auto:        auto,
		whitelist:   make(map[whatlanggo.Lang]bool, len(languages)),
		toTag:       make(map[whatlanggo.Lang]string, len(languages)),
	}
	for _, tag := range languages {
		if lang, ok := isoLangs[tag]; ok {
			d.whitelist[lang] = true
			d.toTag[lang] = tag
		}
	}
	return d
}

// Detect returns the language tag for an utterance. Unreliable or unmapped
// detections fall back to the default language.
func (d *Detector) Detect(utterance string) string {
	if !d.auto || len(d.whitelist) == 0 {
		return d.defaultLang
	}

	info := whatlanggo.DetectWithOptions(utterance, whatlanggo.Options{Whitelist: d.whitelist})
	if !info.IsReliable() {
		return d.defaultLang
	}
	if tag, ok := d.toTag[info.Lang]; ok {
		return tag
	}
	return d.defaultLang
}
