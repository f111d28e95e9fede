// Package kb defines the immutable knowledge base the dialogue engine
// resolves against: intents, entities, Q&A items partitioned by language,
// and context-scoped sub-dialogues. A KnowledgeBase is built once by Load
// and never mutated afterwards, so it is shared across requests without
// locking.
package kb

import (
	"strings"

	"github.com/wicaksana/tanya/match"
)

// IntentFallback is the reserved intent name marking an item as the static
// fallback answer for its language.
const IntentFallback = "fallback"

// Settings carries the knowledge-authored tuning knobs.
type Settings struct {
	DefaultThreshold   float64
	AutoDetectLanguage bool
	DefaultLanguage    string
	Tokenizer          string
	DefaultAnswer      string
	APIFallbackURL     string // empty when no external fallback is configured
}

// Intent is a named user goal detected by keyword matching.
type Intent struct {
	Name     string
	Keywords []string
}

// Entity is a named slot type with an enumerable, case-insensitive value set.
type Entity struct {
	Name   string
	Values []string

	valueSet map[string]struct{}
}

// Matches reports whether token is one of the entity's values. Tokens are
// expected lowercase (the tokenizers guarantee this).
func (e *Entity) Matches(token string) bool {
	_, ok := e.valueSet[token]
	return ok
}

// QAItem is one question/answer unit, standalone or nested in a context.
type QAItem struct {
	ID        string
	Lang      string
	Intent    string
	Questions []string
	Answers   []string
	Weight    float64
	Threshold *float64 // per-item acceptance override; nil uses the default
	Next      string   // context to activate after this item answers; "" clears
	ContextID string   // owning context; "" for standalone items
}

// EffectiveThreshold returns the item's acceptance threshold given the
// knowledge-base default.
func (q *QAItem) EffectiveThreshold(defaultThreshold float64) float64 {
	if q.Threshold != nil {
		return *q.Threshold
	}
	return defaultThreshold
}

// Context is a scoped sub-dialogue restricting matching to its items while
// active.
type Context struct {
	ID    string
	Items []*QAItem
}

// Stats summarizes a loaded knowledge base for CLI and API reporting.
type Stats struct {
	Languages    []string `json:"languages"`
	Intents      int      `json:"intents"`
	Entities     int      `json:"entities"`
	Items        int      `json:"items"`
	ContextItems int      `json:"context_items"`
	Contexts     int      `json:"contexts"`
}

// KnowledgeBase is the read-only resolution substrate.
type KnowledgeBase struct {
	Settings  Settings
	Intents   []Intent
	Entities  []Entity
	Items     []*QAItem // standalone items only
	Tokenizer match.Tokenizer

	contexts  map[string]*Context
	byLang    map[string][]*QAItem // standalone + context items, per language tag
	byID      map[string]*QAItem
	languages []string
	warnings  []string
}

// Warnings returns non-fatal observations from the load, such as items whose
// next-context reference does not resolve.
func (k *KnowledgeBase) Warnings() []string {
	return k.warnings
}

// Candidates returns every item carrying the given language tag, standalone
// and context-nested alike. The returned slice is shared; callers must not
// modify it.
func (k *KnowledgeBase) Candidates(lang string) []*QAItem {
	return k.byLang[lang]
}

// Context resolves a context id. A missing id is not an error; the engine
// treats it as "no active context".
func (k *KnowledgeBase) Context(id string) (*Context, bool) {
	c, ok := k.contexts[id]
	return c, ok
}

// Item resolves an item by its id.
func (k *KnowledgeBase) Item(id string) (*QAItem, bool) {
	it, ok := k.byID[id]
	return it, ok
}

// Languages returns the distinct language tags present in the base.
func (k *KnowledgeBase) Languages() []string {
	return k.languages
}

// Fallback returns the standalone item reserved as the static fallback for
// the given language, if any.
func (k *KnowledgeBase) Fallback(lang string) (*QAItem, bool) {
	for _, it := range k.Items {
		if it.Intent == IntentFallback && it.Lang == lang {
			return it, true
		}
	}
	return nil, false
}

// Stats computes summary counts.
func (k *KnowledgeBase) Stats() Stats {
	contextItems := 0
	for _, c := range k.contexts {
		contextItems += len(c.Items)
	}
	return Stats{
		Languages:    k.languages,
		Intents:      len(k.Intents),
		Entities:     len(k.Entities),
		Items:        len(k.Items),
		ContextItems: contextItems,
		Contexts:     len(k.contexts),
	}
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}
